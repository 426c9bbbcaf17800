package reactions

import (
	"context"
	"errors"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"Glimpse/internal/identity"
	"Glimpse/internal/records"
)

type mockRecords struct {
	mock.Mock
}

func (m *mockRecords) Select(ctx context.Context, table string, opts records.SelectOptions) ([]records.Record, error) {
	args := m.Called(ctx, table, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]records.Record), args.Error(1)
}

func (m *mockRecords) Insert(ctx context.Context, table string, record records.Record) (records.Record, error) {
	args := m.Called(ctx, table, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(records.Record), args.Error(1)
}

func (m *mockRecords) Delete(ctx context.Context, table string, filters ...records.Filter) error {
	args := m.Called(ctx, table, filters)
	return args.Error(0)
}

func (m *mockRecords) Count(ctx context.Context, table string, filters ...records.Filter) (int, error) {
	args := m.Called(ctx, table, filters)
	return args.Int(0), args.Error(1)
}

func newService(t *testing.T) (*Service, *mockRecords) {
	t.Helper()
	rc := new(mockRecords)
	return NewService(rc, identity.Static("user-1"), slogt.New(t)), rc
}

func TestLike_IncrementsAfterRemoteWrite(t *testing.T) {
	svc, rc := newService(t)

	// Seed the counter with the authoritative value.
	rc.On("Count", mock.Anything, "likes", []records.Filter{
		{Column: "post_id", Value: int64(7)},
	}).Return(5, nil).Once()
	count, err := svc.CountLikes(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 5, count)

	rc.On("Insert", mock.Anything, "likes", records.Record{
		"user_id": "user-1",
		"post_id": int64(7),
	}).Return(records.Record{"id": int64(1)}, nil).Once()

	require.NoError(t, svc.Like(context.Background(), 7))
	assert.Equal(t, 6, svc.LikeCount(7))
	rc.AssertExpectations(t)
}

func TestUnlike_DecrementsAfterRemoteDelete(t *testing.T) {
	svc, rc := newService(t)

	rc.On("Count", mock.Anything, "likes", mock.Anything).Return(6, nil).Once()
	_, err := svc.CountLikes(context.Background(), 7)
	require.NoError(t, err)

	rc.On("Delete", mock.Anything, "likes", []records.Filter{
		{Column: "user_id", Value: "user-1"},
		{Column: "post_id", Value: int64(7)},
	}).Return(nil).Once()

	require.NoError(t, svc.Unlike(context.Background(), 7))
	assert.Equal(t, 5, svc.LikeCount(7))
	rc.AssertExpectations(t)
}

func TestLike_FailedWriteLeavesCounterUntouched(t *testing.T) {
	svc, rc := newService(t)

	rc.On("Count", mock.Anything, "likes", mock.Anything).Return(3, nil).Once()
	_, err := svc.CountLikes(context.Background(), 7)
	require.NoError(t, err)

	rc.On("Insert", mock.Anything, "likes", mock.Anything).
		Return(nil, errors.New("record service down")).Once()

	require.Error(t, svc.Like(context.Background(), 7))
	assert.Equal(t, 3, svc.LikeCount(7), "counter must not move when the write failed")
}

func TestUnlike_FailedDeleteLeavesCounterUntouched(t *testing.T) {
	svc, rc := newService(t)

	rc.On("Delete", mock.Anything, "likes", mock.Anything).
		Return(errors.New("record service down")).Once()

	require.Error(t, svc.Unlike(context.Background(), 7))
	assert.Equal(t, 0, svc.LikeCount(7))
}

func TestCountLikes_OverwritesOptimisticDrift(t *testing.T) {
	svc, rc := newService(t)

	// Two local likes drift the counter to 2.
	rc.On("Insert", mock.Anything, "likes", mock.Anything).
		Return(records.Record{"id": int64(1)}, nil).Twice()
	require.NoError(t, svc.Like(context.Background(), 7))
	require.NoError(t, svc.Like(context.Background(), 7))
	require.Equal(t, 2, svc.LikeCount(7))

	// The authoritative count wins regardless of local drift.
	rc.On("Count", mock.Anything, "likes", mock.Anything).Return(41, nil).Once()
	count, err := svc.CountLikes(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 41, count)
	assert.Equal(t, 41, svc.LikeCount(7))
}

func TestLikeCount_UnknownPostIsZero(t *testing.T) {
	svc, _ := newService(t)
	assert.Equal(t, 0, svc.LikeCount(999))
}

func TestUnlike_NoFloorClamp(t *testing.T) {
	svc, rc := newService(t)

	rc.On("Delete", mock.Anything, "likes", mock.Anything).Return(nil).Once()
	require.NoError(t, svc.Unlike(context.Background(), 7))

	// The raw counter goes negative; CountLikes resynchronizes it.
	assert.Equal(t, -1, svc.LikeCount(7))
	rc.On("Count", mock.Anything, "likes", mock.Anything).Return(0, nil).Once()
	_, err := svc.CountLikes(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, svc.LikeCount(7))
}

func TestSaveAndUnsave(t *testing.T) {
	svc, rc := newService(t)

	rc.On("Insert", mock.Anything, "saves", records.Record{
		"user_id": "user-1",
		"post_id": int64(3),
	}).Return(records.Record{"id": int64(1)}, nil).Once()
	require.NoError(t, svc.Save(context.Background(), 3))

	rc.On("Delete", mock.Anything, "saves", []records.Filter{
		{Column: "user_id", Value: "user-1"},
		{Column: "post_id", Value: int64(3)},
	}).Return(nil).Once()
	require.NoError(t, svc.Unsave(context.Background(), 3))

	// Saves keep no local counter.
	assert.Equal(t, 0, svc.LikeCount(3))
	rc.AssertExpectations(t)
}

func TestReactions_RequireIdentity(t *testing.T) {
	rc := new(mockRecords)
	svc := NewService(rc, identity.Static(""), slogt.New(t))

	assert.ErrorIs(t, svc.Like(context.Background(), 1), identity.ErrNoSession)
	assert.ErrorIs(t, svc.Unlike(context.Background(), 1), identity.ErrNoSession)
	assert.ErrorIs(t, svc.Save(context.Background(), 1), identity.ErrNoSession)
	assert.ErrorIs(t, svc.Unsave(context.Background(), 1), identity.ErrNoSession)
	rc.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
}
