package model

// StatusKind is the fetch lifecycle phase.
type StatusKind int

const (
	StatusLoading StatusKind = iota
	StatusReady
	StatusErrored
)

func (k StatusKind) String() string {
	switch k {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Status is one of Loading, Ready or Errored(Message).
type Status struct {
	Kind    StatusKind
	Message string
}

func Loading() Status           { return Status{Kind: StatusLoading} }
func Ready() Status             { return Status{Kind: StatusReady} }
func Errored(msg string) Status { return Status{Kind: StatusErrored, Message: msg} }
