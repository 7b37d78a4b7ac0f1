package views

import (
	"testing"

	"github.com/dmitrijs2005/filedesk/internal/client/client"
	"github.com/dmitrijs2005/filedesk/internal/client/client/clienttest"
	"github.com/dmitrijs2005/filedesk/internal/client/models"
	"github.com/stretchr/testify/require"
)

var ann = models.User{Username: "ann", Email: "ann@example.com", FirstName: "Ann", LastName: "Lee"}

func newBackend(t *testing.T) (*clienttest.Server, *client.HTTPClient) {
	t.Helper()
	srv := clienttest.NewServer(t)
	token := srv.AddUser(ann, "pw")
	c, err := client.NewHTTPClient(client.Options{BaseURL: srv.URL(), Credentials: clienttest.NewCredentials(token)})
	require.NoError(t, err)
	return srv, c
}
