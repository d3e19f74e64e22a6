// Package report renders publish plans and validation results for people and tools.
//
// Text output is colored with fatih/color and groups differences by
// severity, most severe first. JSON output is the plan itself. Markdown
// output is suitable for pull request comments.
//
//	format, err := report.ParseFormat("markdown")
//	if err != nil {
//		return err
//	}
//	return report.RenderPlan(os.Stdout, plan, format)
package report
