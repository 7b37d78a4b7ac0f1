package session

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/filedesk/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func TestReduce_Startup(t *testing.T) {
	s, eff := Reduce(Snapshot{}, StartupNoCredential{})
	assert.Equal(t, Unauthenticated, s.State)
	assert.Empty(t, eff)

	s, eff = Reduce(Snapshot{}, StartupValidated{Credential: "c", User: models.User{Username: "ann"}})
	assert.Equal(t, Authenticated, s.State)
	assert.Equal(t, "c", s.Credential)
	assert.Equal(t, "ann", s.User.Username)
	assert.Empty(t, eff)

	s, eff = Reduce(Snapshot{}, StartupRejected{Err: errors.New("401")})
	assert.Equal(t, Unauthenticated, s.State)
	assert.Equal(t, []Effect{ClearCredential{}}, eff)
}

func TestReduce_StartupEventsIgnoredAfterStart(t *testing.T) {
	live := authenticated("c", models.User{Username: "ann"})

	s, _ := Reduce(live, StartupNoCredential{})
	assert.Equal(t, live, s)

	s, eff := Reduce(live, StartupRejected{})
	assert.Equal(t, live, s)
	assert.Empty(t, eff)
}

func TestReduce_LoginAndLogout(t *testing.T) {
	s, eff := Reduce(unauthenticated(ExpiredNotice), LoginSucceeded{Credential: "tok", User: models.User{Username: "ann"}})
	assert.True(t, s.Authenticated())
	assert.Empty(t, s.Notice)
	assert.Equal(t, []Effect{PersistCredential{Credential: "tok"}}, eff)

	failed, eff := Reduce(unauthenticated(""), LoginFailed{})
	assert.Equal(t, Unauthenticated, failed.State)
	assert.Empty(t, eff)

	out, eff := Reduce(s, LoggedOut{})
	assert.Equal(t, Unauthenticated, out.State)
	assert.Nil(t, out.User)
	assert.Empty(t, out.Credential)
	assert.Equal(t, []Effect{ClearCredential{}}, eff)
}

func TestReduce_Revoked(t *testing.T) {
	live := authenticated("c", models.User{Username: "ann"})

	s, eff := Reduce(live, CredentialRevoked{})
	assert.Equal(t, Unauthenticated, s.State)
	assert.Equal(t, ExpiredNotice, s.Notice)
	assert.Nil(t, s.User)
	assert.Equal(t, []Effect{ClearCredential{}}, eff)

	again, eff := Reduce(s, CredentialRevoked{})
	assert.Equal(t, s, again)
	assert.Empty(t, eff)

	consumed, _ := Reduce(s, NoticeConsumed{})
	assert.Empty(t, consumed.Notice)

	// logout after a revoke during backend logout shows no notice
	out, _ := Reduce(s, LoggedOut{})
	assert.Empty(t, out.Notice)
}

func TestReduce_UserUpdated(t *testing.T) {
	s, _ := Reduce(authenticated("c", models.User{Username: "ann"}), UserUpdated{User: models.User{Username: "anna"}})
	assert.Equal(t, "anna", s.User.Username)
	assert.Equal(t, "c", s.Credential)

	s, _ = Reduce(unauthenticated(""), UserUpdated{User: models.User{Username: "x"}})
	assert.Nil(t, s.User)
}

func TestReduce_InvariantCredentialImpliesUser(t *testing.T) {
	events := []Event{
		StartupNoCredential{}, StartupValidated{Credential: "a"}, StartupRejected{},
		LoginSucceeded{Credential: "b"}, LoginFailed{}, Registered{Credential: "c"},
		LoggedOut{}, CredentialRevoked{}, UserUpdated{}, NoticeConsumed{},
		StartupValidated{Credential: "", User: models.User{Username: "x"}},
		LoginSucceeded{Credential: "", User: models.User{Username: "x"}},
		Registered{Credential: "", User: models.User{Username: "x"}},
	}

	for _, first := range events {
		for _, second := range events {
			s, _ := Reduce(Snapshot{}, first)
			s, _ = Reduce(s, second)

			if s.State == Authenticated {
				assert.NotEmpty(t, s.Credential)
				assert.NotNil(t, s.User)
			} else {
				assert.Empty(t, s.Credential)
				assert.Nil(t, s.User)
			}
		}
	}
}

func TestReduce_RefusesEmptyCredential(t *testing.T) {
	u := models.User{Username: "ann"}

	for _, e := range []Event{LoginSucceeded{User: u}, Registered{User: u}} {
		s, eff := Reduce(unauthenticated(ExpiredNotice), e)
		assert.Equal(t, unauthenticated(ExpiredNotice), s)
		assert.Empty(t, eff)
	}

	s, eff := Reduce(Snapshot{}, StartupValidated{User: u})
	assert.Equal(t, Unauthenticated, s.State)
	assert.Nil(t, s.User)
	assert.Equal(t, []Effect{ClearCredential{}}, eff)
}

func TestLoginOutcome_Message(t *testing.T) {
	assert.Equal(t, "", LoginOutcome{Kind: ProviderSuccess}.Message())
	assert.Equal(t, ExchangeFailedMessage, LoginOutcome{Kind: ExchangeFailed, Err: errors.New("x")}.Message())
	assert.Equal(t, "provider says no", LoginOutcome{Kind: BothFailed, Err: errors.New("provider says no")}.Message())
	assert.True(t, LoginOutcome{Kind: ProviderFailureFallbackSuccess}.OK())
	assert.False(t, LoginOutcome{Kind: PersistFailed}.OK())
	assert.Equal(t, PersistFailedMessage, LoginOutcome{Kind: PersistFailed, Err: errors.New("disk")}.Message())
}
