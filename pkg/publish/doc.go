// Package publish decides which version a changed package file must be
// published as.
//
// A Planner compares the published package file with the new one, reduces
// the differences to a compatibility level and derives the minimum next
// version. CheckVersion then rejects a proposed version below that minimum:
//
//	planner := publish.NewPlanner(publish.WithLogger(logger), publish.WithMetrics(metrics))
//	plan, err := planner.Plan(ctx, prior, next)
//	if err != nil {
//		return err
//	}
//	if err := planner.CheckVersion(plan, next.Version); errors.Is(err, publish.ErrVersionTooLow) {
//		fmt.Printf("publish as %s or later\n", plan.RequiredVersion)
//	}
//
// Every plan carries a random ID that is attached to its log lines and span.
package publish
