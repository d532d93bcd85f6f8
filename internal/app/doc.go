// Package app provides application bootstrap and the operations behind the
// modject commands.
//
// # Architecture Overview
//
// The app package sits between the cobra commands and the orchestrator:
//
// 1. **Bootstrap (`bootstrap.go`)**: logging and tracing initialization, orchestrator construction
// 2. **Configuration (`config.go`)**: settings and output writers handed in by the CLI
// 3. **Check (`check.go`)**: manifest validation down to the dependency graph
// 4. **Plan (`plan.go`)**: dry-run start and stop passes
// 5. **Reports (`report.go`)**: results rendered by the formatting package
//
// # Bootstrap
//
// NewApplication validates the settings, initializes pkg/logging with the
// configured level and format, and creates the trace provider. Every
// orchestrator created through the application records spans with that
// provider; Shutdown flushes them.
//
// # Check
//
// Check runs every stage it can and collects the problems into a single
// report:
//
//   - **parse**: the file is not YAML
//   - **schema**: the document violates the manifest schema
//   - **lint**: duplicate entry point names or slots
//   - **registration**: layer violations rejected by the orchestrator
//   - **graph**: cycles and slots contributed twice
//
// Dependencies nothing contributes are reported separately as unprovided
// slots. They are legal, but the entry points waiting on them never start.
//
// # Plan
//
// PlanStart and PlanStop register the manifest's inert entry points with a
// real orchestrator and record the activation or teardown order from its
// lifecycle events. Because manifest entry points only contribute
// placeholders, a plan has no side effects.
//
//	a, err := app.NewApplication(app.NewConfig(cfg, os.Stderr))
//	if err != nil {
//	    return err
//	}
//	defer a.Shutdown(ctx)
//
//	plan, err := a.PlanStart("app.yaml", []string{"api"})
//	if err != nil {
//	    return err
//	}
//	for _, step := range plan.Steps {
//	    fmt.Println(step.Step, step.EntryPoint)
//	}
package app
