package upload

import "fmt"

// State is the position of one attachment in the pipeline.
type State int

const (
	StatePending State = iota
	StatePreprocessed
	StatePresigned
	StateUploaded
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StatePreprocessed:
		return "PREPROCESSED"
	case StatePresigned:
		return "PRESIGNED"
	case StateUploaded:
		return "UPLOADED"
	case StateCompleted:
		return "COMPLETED"
	case StateFailed:
		return "FAILED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Stage names the step that produced an error.
type Stage string

const (
	StagePreprocess Stage = "preprocess"
	StageValidate   Stage = "validate"
	StagePresign    Stage = "presign"
	StageUpload     Stage = "upload"
	StageComplete   Stage = "complete"
)

// Event is delivered to the observer on every transition.
type Event struct {
	AttachmentID string
	State        State
	// Attempts is the number of PUTs made; set from StateUploaded on.
	Attempts int
	// Err is set only with StateFailed.
	Err error
}

// Observer receives transitions. With UploadAll it is called from several
// goroutines and must be safe for concurrent use.
type Observer func(Event)
