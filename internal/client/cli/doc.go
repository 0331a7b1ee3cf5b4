// Package cli provides the interactive timecapsule command-line client.
//
// It wires configuration, the local database, the backend client, the
// upload pipeline and the creation wizard, and runs a REPL that walks the
// wizard through its three steps:
//
//   - INFO: name, content, open date, personnel, storage, add-ons and
//     attachments; "upload" pushes attachments to storage, "next" freezes
//     the form (and saves it as a draft)
//   - PAYMENT: order summary, term agreements, "pay" and "approve"
//   - ROOM: participant status and "finalize"
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
