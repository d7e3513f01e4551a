package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShare_EndToEnd(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	n, err := e.notes.Create(ctx, "# Hello\nWorld", nil)
	require.NoError(t, err)
	require.Equal(t, 1, e.count(t))
	require.False(t, e.get(t, n.ID).Shared)

	res, err := e.share.Begin(ctx, n.ID)
	require.NoError(t, err)
	require.False(t, res.AlreadyShared)
	require.Equal(t, "ab12cd", res.Challenge.Code)
	require.True(t, res.Challenge.Expiry.Equal(t0.Add(120*time.Second)))
	require.Equal(t, StateChallengeReady, e.session.State())

	e.clock.Advance(30 * time.Second)
	shared, err := e.share.Submit(ctx, "AB12CD")
	require.NoError(t, err)
	require.True(t, shared.Shared)
	require.Equal(t, "AB12CD", e.client.lastCaptcha)

	stored := e.get(t, n.ID)
	assert.True(t, stored.Shared)
	assert.Equal(t, "server", stored.DateString, "canonical copy replaces the draft")
	assert.Equal(t, "Hello", stored.TitleText)
	require.Equal(t, 1, e.count(t))
	require.Equal(t, StateSucceeded, e.session.State())
}

func TestShare_MismatchLeavesEverythingUnchanged(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	n, err := e.notes.Create(ctx, "# Hello", nil)
	require.NoError(t, err)
	_, err = e.share.Begin(ctx, n.ID)
	require.NoError(t, err)

	_, err = e.share.Submit(ctx, "wrong1")
	require.ErrorIs(t, err, common.ErrCaptchaMismatch)

	_, shares, _ := e.client.calls()
	require.Zero(t, shares)
	require.False(t, e.get(t, n.ID).Shared)
	require.Empty(t, e.client.remote)

	_, err = e.share.Submit(ctx, "ab12cd")
	require.NoError(t, err, "the same challenge can be retried")
}

func TestShare_ExpiredRejectsCorrectCode(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	n, err := e.notes.Create(ctx, "# Hello", nil)
	require.NoError(t, err)
	_, err = e.share.Begin(ctx, n.ID)
	require.NoError(t, err)

	e.clock.Advance(121 * time.Second)
	_, err = e.share.Submit(ctx, "ab12cd")
	require.ErrorIs(t, err, common.ErrCaptchaExpired)

	_, shares, _ := e.client.calls()
	require.Zero(t, shares)
	require.False(t, e.get(t, n.ID).Shared)
}

func TestShare_EmptyResponse(t *testing.T) {
	e := newEnv(t)
	_, err := e.share.Submit(context.Background(), "")
	require.ErrorIs(t, err, common.ErrCaptchaRequired)
}

func TestShare_BeginOnSharedNoteSkipsNetwork(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	n, err := e.notes.Create(ctx, "# Hello", nil)
	require.NoError(t, err)
	n.Shared = true
	_, err = e.repo.Put(ctx, n)
	require.NoError(t, err)
	e.session.SetActive(0)

	res, err := e.share.Begin(ctx, n.ID)
	require.NoError(t, err)
	require.True(t, res.AlreadyShared)
	require.Nil(t, res.Challenge)

	challenges, _, _ := e.client.calls()
	require.Zero(t, challenges)

	id, ok := e.session.ActiveID()
	require.True(t, ok)
	require.Equal(t, n.ID, id)
}

func TestShare_BeginUnknownNote(t *testing.T) {
	e := newEnv(t)
	_, err := e.share.Begin(context.Background(), 123456)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRequestChallenge_Cooldown(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.share.RequestChallenge(ctx)
	require.NoError(t, err)

	_, err = e.share.RequestChallenge(ctx)
	require.ErrorIs(t, err, common.ErrCooldown)

	challenges, _, _ := e.client.calls()
	require.Equal(t, 1, challenges)

	e.clock.Advance(DefaultCooldown)
	_, err = e.share.RequestChallenge(ctx)
	require.NoError(t, err)
}

func TestRequestChallenge_TransportFailure(t *testing.T) {
	e := newEnv(t)
	e.client.challengeErr = client.ErrUnavailable

	_, err := e.share.RequestChallenge(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	require.Equal(t, StateFailed, e.session.State())

	_, ok := e.session.Challenge()
	require.False(t, ok)
}

func TestSubmit_IsNotReentrant(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	n, err := e.notes.Create(ctx, "# Hello", nil)
	require.NoError(t, err)
	_, err = e.share.Begin(ctx, n.ID)
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	e.client.shareHook = func() {
		close(entered)
		<-release
	}

	done := make(chan error, 1)
	go func() {
		_, err := e.share.Submit(ctx, "ab12cd")
		done <- err
	}()

	<-entered
	_, err = e.share.Submit(ctx, "ab12cd")
	require.ErrorIs(t, err, common.ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
	require.Zero(t, e.session.InFlight())

	_, shares, _ := e.client.calls()
	require.Equal(t, 1, shares)
}

func TestSubmit_RemoteRejectionKeepsLocalNote(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.client.shareErr = &client.APIError{StatusCode: 400, Message: "wrong captcha"}

	n, err := e.notes.Create(ctx, "# Hello", nil)
	require.NoError(t, err)
	_, err = e.share.Begin(ctx, n.ID)
	require.NoError(t, err)

	_, err = e.share.Submit(ctx, "ab12cd")
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "wrong captcha", apiErr.Message)

	stored := e.get(t, n.ID)
	require.NotNil(t, stored, "re-share never deletes the existing note")
	require.False(t, stored.Shared)
	require.Equal(t, StateFailed, e.session.State())
	require.Zero(t, e.session.InFlight())
}

func TestSubmit_ServiceAssignedIDReplacesDraft(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.client.assignID = func(id int64) int64 { return id + 1 }

	n, err := e.notes.Create(ctx, "# Hello", ptr(int64(123456)))
	require.NoError(t, err)
	_, err = e.share.Begin(ctx, n.ID)
	require.NoError(t, err)

	shared, err := e.share.Submit(ctx, "AB12CD")
	require.NoError(t, err)
	require.Equal(t, int64(123457), shared.ID)

	require.Nil(t, e.get(t, 123456), "draft is removed")
	stored := e.get(t, 123457)
	require.NotNil(t, stored)
	assert.True(t, stored.Shared)
	require.Equal(t, 1, e.count(t))
	active, ok := e.session.ActiveID()
	require.True(t, ok)
	require.Equal(t, int64(123457), active)
}

func TestSubmit_InvalidServiceIDKeepsDraft(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.client.assignID = func(int64) int64 { return 0 }

	n, err := e.notes.Create(ctx, "# Hello", ptr(int64(123456)))
	require.NoError(t, err)
	_, err = e.share.Begin(ctx, n.ID)
	require.NoError(t, err)

	_, err = e.share.Submit(ctx, "ab12cd")
	require.Error(t, err)

	stored := e.get(t, 123456)
	require.NotNil(t, stored)
	require.False(t, stored.Shared)
	require.Equal(t, 1, e.count(t))
}

func TestCreateAndShare_Success(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.share.RequestChallenge(ctx)
	require.NoError(t, err)

	n, err := e.share.CreateAndShare(ctx, "# Chosen\nid", ptr(int64(424242)), "AB12CD")
	require.NoError(t, err)
	require.Equal(t, int64(424242), n.ID)
	require.True(t, n.Shared)

	stored := e.get(t, 424242)
	require.True(t, stored.Shared)
	require.Contains(t, e.client.remote, int64(424242))
}

func TestCreateAndShare_RejectionDeletesDraft(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.client.shareErr = &client.APIError{StatusCode: 409, Message: "id taken"}

	_, err := e.share.RequestChallenge(ctx)
	require.NoError(t, err)

	_, err = e.share.CreateAndShare(ctx, "# Draft", ptr(int64(424242)), "ab12cd")
	require.ErrorIs(t, err, common.ErrAlreadyExists)

	require.Nil(t, e.get(t, 424242), "no unshared orphan is left behind")
	require.Equal(t, 0, e.count(t))
	require.Zero(t, e.session.InFlight())
}

func TestCreateAndShare_TransportFailureDeletesDraft(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.client.shareErr = client.ErrUnavailable

	_, err := e.share.RequestChallenge(ctx)
	require.NoError(t, err)

	_, err = e.share.CreateAndShare(ctx, "# Draft", nil, "ab12cd")
	require.ErrorIs(t, err, client.ErrUnavailable)
	require.Equal(t, 0, e.count(t))
}

func TestCreateAndShare_OccupiedIDSkipsNetwork(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.notes.Create(ctx, "# Existing", ptr(int64(424242)))
	require.NoError(t, err)
	_, err = e.share.RequestChallenge(ctx)
	require.NoError(t, err)

	_, err = e.share.CreateAndShare(ctx, "# New", ptr(int64(424242)), "ab12cd")
	require.ErrorIs(t, err, common.ErrAlreadyExists)

	_, shares, _ := e.client.calls()
	require.Zero(t, shares)
	require.Equal(t, "# Existing", e.get(t, 424242).Content, "existing note untouched")

	_, ok := e.session.Challenge()
	require.True(t, ok)
}

func TestCreateAndShare_InvalidCaptchaCreatesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.share.RequestChallenge(ctx)
	require.NoError(t, err)

	_, err = e.share.CreateAndShare(ctx, "# New", nil, "nope00")
	require.ErrorIs(t, err, common.ErrCaptchaMismatch)
	require.Equal(t, 0, e.count(t))
}

func TestCreateAndShare_EmptyContent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.share.RequestChallenge(ctx)
	require.NoError(t, err)

	_, err = e.share.CreateAndShare(ctx, "   ", nil, "ab12cd")
	require.ErrorIs(t, err, common.ErrEmptyNote)
	require.Zero(t, e.session.InFlight())
}

func TestShareLink(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, "http://127.0.0.1:8080/?note=123456", e.share.ShareLink(123456))

	e.share.publicURL = "https://notes.example.com/app?lang=vi"
	require.Equal(t, "https://notes.example.com/app?lang=vi&note=123456", e.share.ShareLink(123456))
}
