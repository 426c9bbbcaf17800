package store

import (
	"context"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Glimpse/internal/identity"
	"Glimpse/internal/records"
)

type nullRecords struct{}

func (nullRecords) Select(context.Context, string, records.SelectOptions) ([]records.Record, error) {
	return nil, nil
}
func (nullRecords) Insert(context.Context, string, records.Record) (records.Record, error) {
	return records.Record{}, nil
}
func (nullRecords) Delete(context.Context, string, ...records.Filter) error { return nil }
func (nullRecords) Count(context.Context, string, ...records.Filter) (int, error) {
	return 0, nil
}

type nullBlobs struct{}

func (nullBlobs) Upload(context.Context, string, []byte, string) (string, error) {
	return "", nil
}

func TestNew_RequiresCollaborators(t *testing.T) {
	logger := slogt.New(t)

	_, err := New(Collaborators{Blobs: nullBlobs{}, Identity: identity.Static("u"), Logger: logger})
	assert.ErrorContains(t, err, "record service")

	_, err = New(Collaborators{Records: nullRecords{}, Identity: identity.Static("u"), Logger: logger})
	assert.ErrorContains(t, err, "blob storage")

	_, err = New(Collaborators{Records: nullRecords{}, Blobs: nullBlobs{}, Logger: logger})
	assert.ErrorContains(t, err, "identity")
}

func TestNew_WiresServices(t *testing.T) {
	s, err := New(Collaborators{
		Records:  nullRecords{},
		Blobs:    nullBlobs{},
		Identity: identity.Static("u"),
		Logger:   slogt.New(t),
	})
	require.NoError(t, err)
	require.NotNil(t, s.Feed)
	require.NotNil(t, s.Composer)
	require.NotNil(t, s.Reactions)
}

func TestNew_CapacityOptionReachesComposer(t *testing.T) {
	s, err := New(Collaborators{
		Records:  nullRecords{},
		Blobs:    nullBlobs{},
		Identity: identity.Static("u"),
		Logger:   slogt.New(t),
	}, WithCapacity(4))
	require.NoError(t, err)
	assert.Equal(t, 4, s.Composer.Snapshot().Capacity)
}
