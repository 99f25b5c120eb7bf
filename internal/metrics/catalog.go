// Package metrics holds the fixed catalog of analysis-server metric keys requested on every run.
package metrics

import "strings"

// catalog is ordered: the report writes one row per entry in this order.
var catalog = []string{
	// Size
	"ncloc",
	"lines",
	"statements",
	"functions",
	"classes",
	"files",
	"directories",
	"comment_lines",
	"comment_lines_density",
	"ncloc_language_distribution",
	"projects",
	"generated_lines",
	"generated_ncloc",
	"public_api",
	"public_documented_api_density",
	"public_undocumented_api",

	// Complexity
	"complexity",
	"cognitive_complexity",
	"file_complexity",
	"class_complexity",
	"function_complexity",
	"complexity_in_classes",
	"complexity_in_functions",
	"file_complexity_distribution",
	"function_complexity_distribution",

	// Duplications
	"duplicated_lines",
	"duplicated_lines_density",
	"duplicated_blocks",
	"duplicated_files",
	"duplications_data",
	"new_duplicated_lines",
	"new_duplicated_lines_density",
	"new_duplicated_blocks",
	"new_lines",

	// Issues
	"violations",
	"new_violations",
	"blocker_violations",
	"critical_violations",
	"major_violations",
	"minor_violations",
	"info_violations",
	"new_blocker_violations",
	"new_critical_violations",
	"new_major_violations",
	"new_minor_violations",
	"new_info_violations",
	"open_issues",
	"reopened_issues",
	"confirmed_issues",
	"false_positive_issues",
	"wont_fix_issues",
	"accepted_issues",
	"new_accepted_issues",
	"high_impact_accepted_issues",
	"prioritized_rule_issues",
	"software_quality_blocker_issues",
	"software_quality_high_issues",
	"software_quality_medium_issues",
	"software_quality_low_issues",
	"software_quality_info_issues",
	"new_software_quality_blocker_issues",
	"new_software_quality_high_issues",
	"new_software_quality_medium_issues",
	"new_software_quality_low_issues",
	"new_software_quality_info_issues",

	// Reliability
	"bugs",
	"new_bugs",
	"reliability_rating",
	"new_reliability_rating",
	"reliability_remediation_effort",
	"new_reliability_remediation_effort",
	"reliability_issues",
	"new_reliability_issues",
	"software_quality_reliability_issues",
	"new_software_quality_reliability_issues",
	"software_quality_reliability_rating",
	"new_software_quality_reliability_rating",
	"software_quality_reliability_remediation_effort",
	"new_software_quality_reliability_remediation_effort",

	// Security
	"vulnerabilities",
	"new_vulnerabilities",
	"security_rating",
	"new_security_rating",
	"security_remediation_effort",
	"new_security_remediation_effort",
	"security_issues",
	"new_security_issues",
	"software_quality_security_issues",
	"new_software_quality_security_issues",
	"software_quality_security_rating",
	"new_software_quality_security_rating",
	"software_quality_security_remediation_effort",
	"new_software_quality_security_remediation_effort",

	// Security review
	"security_hotspots",
	"new_security_hotspots",
	"security_hotspots_reviewed",
	"new_security_hotspots_reviewed",
	"security_hotspots_reviewed_status",
	"security_hotspots_to_review_status",
	"new_security_hotspots_reviewed_status",
	"new_security_hotspots_to_review_status",
	"security_review_rating",
	"new_security_review_rating",
	"software_quality_security_review_rating",
	"new_software_quality_security_review_rating",

	// Maintainability
	"code_smells",
	"new_code_smells",
	"sqale_rating",
	"new_maintainability_rating",
	"sqale_index",
	"new_technical_debt",
	"sqale_debt_ratio",
	"new_sqale_debt_ratio",
	"effort_to_reach_maintainability_rating_a",
	"development_cost",
	"new_development_cost",
	"maintainability_issues",
	"new_maintainability_issues",
	"software_quality_maintainability_issues",
	"new_software_quality_maintainability_issues",
	"software_quality_maintainability_rating",
	"new_software_quality_maintainability_rating",
	"software_quality_maintainability_remediation_effort",
	"new_software_quality_maintainability_remediation_effort",
	"software_quality_maintainability_debt_ratio",
	"new_software_quality_maintainability_debt_ratio",
	"effort_to_reach_software_quality_maintainability_rating_a",

	// Coverage
	"coverage",
	"new_coverage",
	"line_coverage",
	"new_line_coverage",
	"branch_coverage",
	"new_branch_coverage",
	"lines_to_cover",
	"new_lines_to_cover",
	"uncovered_lines",
	"new_uncovered_lines",
	"conditions_to_cover",
	"new_conditions_to_cover",
	"uncovered_conditions",
	"new_uncovered_conditions",
	"covered_conditions_by_line",
	"conditions_by_line",
	"coverage_line_hits_data",
	"executable_lines_data",
	"it_coverage",
	"it_line_coverage",
	"it_branch_coverage",
	"overall_coverage",
	"overall_line_coverage",
	"overall_branch_coverage",

	// Tests
	"tests",
	"test_errors",
	"test_failures",
	"skipped_tests",
	"test_success_density",
	"test_execution_time",

	// Quality gate and releasability
	"alert_status",
	"quality_gate_details",
	"quality_profiles",
	"last_change_on_maintainability_rating",
	"last_change_on_releasability_rating",
	"last_change_on_reliability_rating",
	"last_change_on_security_rating",
	"last_change_on_security_review_rating",
	"releasability_rating",
	"releasability_effort",
	"analysis_from_sonarqube_9_4",

	// Management
	"last_commit_date",
	"burned_budget",
	"business_value",
	"team_size",

	// Pull request and branch scope
	"pull_request_fixed_issues",
	"contains_ai_code",
	"sca_count_any_issue",
	"new_sca_count_any_issue",
	"sca_rating_any_issue",
	"new_sca_rating_any_issue",
	"sca_severity_vulnerability",
	"new_sca_severity_vulnerability",
	"sca_severity_licensing",
	"new_sca_severity_licensing",
	"sca_rating_vulnerability",
	"new_sca_rating_vulnerability",
	"sca_rating_licensing",
	"new_sca_rating_licensing",
}

// Catalog returns a copy of the metric catalog in report order.
func Catalog() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}

// Query joins metric keys into the comma-separated form accepted by the measures endpoint.
func Query(keys []string) string {
	return strings.Join(keys, ",")
}
