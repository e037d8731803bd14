// Package build runs the documentation pipeline.
//
// A build is an ordered list of stages (aggregate, generate, copy_assets and the
// optional verify_links and write_manifest) executed by RunStages against a shared
// State. Each stage either succeeds, records a warning and lets the build continue,
// or aborts the build with a fatal or canceled StageError. Service assembles the
// stage lists behind each CLI command.
package build
