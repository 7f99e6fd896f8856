package service

import "fmt"

// SubmissionState is a step of the complaint submission workflow.
type SubmissionState string

const (
	StateReceived           SubmissionState = "Received"
	StateValidated          SubmissionState = "Validated"
	StateUserNotFound       SubmissionState = "UserNotFound"
	StateImageStored        SubmissionState = "ImageStored"
	StateClassified         SubmissionState = "Classified"
	StateApproved           SubmissionState = "Approved"
	StateMismatchBlocked    SubmissionState = "MismatchBlocked"
	StateMismatchOverridden SubmissionState = "MismatchOverridden"
	StatePersisted          SubmissionState = "Persisted"
	StateSyncAttempted      SubmissionState = "SyncAttempted"
	StateSynced             SubmissionState = "Synced"
	StateSyncFailed         SubmissionState = "SyncFailed"
	StateFailed             SubmissionState = "Failed"
)

var submissionTransitions = map[SubmissionState][]SubmissionState{
	StateReceived:           {StateValidated, StateUserNotFound, StateFailed},
	StateValidated:          {StateImageStored, StateFailed},
	StateImageStored:        {StateClassified, StateFailed},
	StateClassified:         {StateApproved, StateMismatchBlocked, StateMismatchOverridden},
	StateApproved:           {StatePersisted, StateFailed},
	StateMismatchOverridden: {StatePersisted, StateFailed},
	StatePersisted:          {StateSyncAttempted},
	StateSyncAttempted:      {StateSynced, StateSyncFailed},
}

// Terminal reports whether the workflow stops in s.
func (s SubmissionState) Terminal() bool {
	return len(submissionTransitions[s]) == 0
}

// Stored reports whether a complaint row exists once the workflow ends in s.
func (s SubmissionState) Stored() bool {
	return s == StateSynced || s == StateSyncFailed
}

func isValidSubmissionTransition(from, to SubmissionState) bool {
	for _, next := range submissionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// advance moves the outcome to next, recording the step in its trace.
func (o *SubmissionOutcome) advance(next SubmissionState) error {
	if !isValidSubmissionTransition(o.State, next) {
		return fmt.Errorf("invalid submission transition %s -> %s", o.State, next)
	}
	o.State = next
	o.Trace = append(o.Trace, next)
	return nil
}
