package session

import (
	"github.com/dmitrijs2005/filedesk/internal/client/models"
)

// State is the coarse authentication state.
type State int

const (
	Unknown State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// ExpiredNotice is shown once after the backend invalidated the session.
const ExpiredNotice = "Your session has expired. Please log in again."

// Snapshot is an immutable view of the session.
// Credential and User are both set exactly when State is Authenticated.
type Snapshot struct {
	State      State
	Credential string
	User       *models.User
	// Notice is a one-shot message for the next guarded navigation.
	Notice string
}

// Authenticated reports whether the snapshot holds a live session.
func (s Snapshot) Authenticated() bool {
	return s.State == Authenticated
}

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

type (
	// StartupNoCredential: nothing was persisted.
	StartupNoCredential struct{}
	// StartupValidated: the backend accepted the persisted credential.
	StartupValidated struct {
		Credential string
		User       models.User
	}
	// StartupRejected: the persisted credential could not be validated.
	StartupRejected struct{ Err error }
	// LoginSucceeded: either login path produced a backend credential.
	LoginSucceeded struct {
		Credential string
		User       models.User
	}
	// LoginFailed carries the outcome of a failed login.
	LoginFailed struct{ Outcome LoginOutcome }
	// Registered: registration returned a credential.
	Registered struct {
		Credential string
		User       models.User
	}
	LoggedOut struct{}
	// CredentialRevoked: the backend answered 401/403 outside the auth views.
	CredentialRevoked struct{}
	// UserUpdated replaces the user record of a live session.
	UserUpdated struct{ User models.User }
	// NoticeConsumed clears the one-shot notice.
	NoticeConsumed struct{}
)

func (StartupNoCredential) isEvent() {}
func (StartupValidated) isEvent()    {}
func (StartupRejected) isEvent()     {}
func (LoginSucceeded) isEvent()      {}
func (LoginFailed) isEvent()         {}
func (Registered) isEvent()          {}
func (LoggedOut) isEvent()           {}
func (CredentialRevoked) isEvent()   {}
func (UserUpdated) isEvent()         {}
func (NoticeConsumed) isEvent()      {}

// Effect is a side effect requested by Reduce.
type Effect interface {
	isEffect()
}

type (
	PersistCredential struct{ Credential string }
	ClearCredential   struct{}
)

func (PersistCredential) isEffect() {}
func (ClearCredential) isEffect()   {}

func authenticated(cred string, u models.User) Snapshot {
	return Snapshot{State: Authenticated, Credential: cred, User: &u}
}

// signIn authenticates with cred. Without a credential the session is left
// as it was.
func signIn(s Snapshot, cred string, u models.User) (Snapshot, []Effect) {
	if cred == "" {
		return s, nil
	}
	return authenticated(cred, u), []Effect{PersistCredential{Credential: cred}}
}

func unauthenticated(notice string) Snapshot {
	return Snapshot{State: Unauthenticated, Notice: notice}
}

// Reduce computes the next snapshot and the effects to run. It has no side
// effects of its own.
func Reduce(s Snapshot, e Event) (Snapshot, []Effect) {
	switch ev := e.(type) {
	case StartupNoCredential:
		if s.State != Unknown {
			return s, nil
		}
		return unauthenticated(s.Notice), nil

	case StartupValidated:
		if s.State != Unknown {
			return s, nil
		}
		if ev.Credential == "" {
			return unauthenticated(s.Notice), []Effect{ClearCredential{}}
		}
		return authenticated(ev.Credential, ev.User), nil

	case StartupRejected:
		if s.State == Authenticated {
			return s, nil
		}
		return unauthenticated(s.Notice), []Effect{ClearCredential{}}

	case LoginSucceeded:
		return signIn(s, ev.Credential, ev.User)

	case Registered:
		return signIn(s, ev.Credential, ev.User)

	case LoginFailed:
		if s.State == Unknown {
			return unauthenticated(s.Notice), nil
		}
		return s, nil

	case LoggedOut:
		return unauthenticated(""), []Effect{ClearCredential{}}

	case CredentialRevoked:
		if s.State == Unauthenticated {
			return s, nil
		}
		return unauthenticated(ExpiredNotice), []Effect{ClearCredential{}}

	case UserUpdated:
		if s.State != Authenticated {
			return s, nil
		}
		next := s
		u := ev.User
		next.User = &u
		return next, nil

	case NoticeConsumed:
		next := s
		next.Notice = ""
		return next, nil
	}

	return s, nil
}
