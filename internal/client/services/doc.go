// Package services contains application services for the timecapsule CLI.
// They sit between the command layer and the lower packages: uploads are
// pushed through the pipeline and their results fed back into the wizard,
// drafts and tokens are persisted in the local database, and errors from
// every layer are turned into one user-facing message.
package services
