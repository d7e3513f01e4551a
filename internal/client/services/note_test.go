package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_DerivesFieldsAndActivates(t *testing.T) {
	e := newEnv(t)
	e.notes.ids = &seqIDs{ids: []int64{123456}}

	n, err := e.notes.Create(context.Background(), "# Hello\nWorld", nil)
	require.NoError(t, err)
	require.NotNil(t, n)

	assert.Equal(t, int64(123456), n.ID)
	assert.Equal(t, "Hello", n.TitleText)
	assert.Equal(t, "Hello\nWorld", n.PlainText)
	assert.False(t, n.Shared)
	assert.Equal(t, "08:30 15/10/2026", n.DateString)
	assert.True(t, n.ISODate.Equal(t0))

	require.Equal(t, 1, e.count(t))
	stored := e.get(t, 123456)
	require.Equal(t, "Hello", stored.TitleText)
	require.False(t, stored.Shared)

	active, ok := e.session.ActiveID()
	require.True(t, ok)
	require.Equal(t, int64(123456), active)
	require.Equal(t, 1, e.changes)
}

func TestCreate_NoHeadingUsesSentinel(t *testing.T) {
	e := newEnv(t)

	n, err := e.notes.Create(context.Background(), "just some text", nil)
	require.NoError(t, err)
	require.Equal(t, common.NoTitle, n.TitleText)
	require.True(t, ValidID(n.ID))
}

func TestCreate_EmptyContentIsNoop(t *testing.T) {
	e := newEnv(t)

	for _, content := range []string{"", "   \n\t", "#", "<!-- comment -->"} {
		n, err := e.notes.Create(context.Background(), content, nil)
		require.NoError(t, err, content)
		require.Nil(t, n, content)
	}
	require.Equal(t, 0, e.count(t))
	require.Equal(t, 0, e.changes)
	_, ok := e.session.ActiveID()
	require.False(t, ok)
}

func TestCreate_SameExplicitIDSucceedsOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.notes.Create(ctx, "# First", ptr(int64(555555)))
	require.NoError(t, err)

	n, err := e.notes.Create(ctx, "# Second", ptr(int64(555555)))
	require.ErrorIs(t, err, common.ErrAlreadyExists)
	require.Nil(t, n)

	require.Equal(t, 1, e.count(t))
	require.Equal(t, "# First", e.get(t, 555555).Content)
}

func TestCreate_RandomCollisionIsNotRetried(t *testing.T) {
	e := newEnv(t)
	ids := &seqIDs{ids: []int64{222222}}
	e.notes.ids = ids
	ctx := context.Background()

	_, err := e.notes.Create(ctx, "# One", nil)
	require.NoError(t, err)

	_, err = e.notes.Create(ctx, "# Two", nil)
	require.ErrorIs(t, err, common.ErrAlreadyExists)
	require.Equal(t, 2, ids.calls)
	require.Equal(t, 1, e.count(t))
}

func TestCreate_RejectsMalformedExplicitID(t *testing.T) {
	e := newEnv(t)

	_, err := e.notes.Create(context.Background(), "# x", ptr(int64(42)))
	require.ErrorIs(t, err, common.ErrInvalidReference)
	require.Equal(t, 0, e.count(t))
}

func TestUpdate_KeepsIDAndShared(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	n, err := e.notes.Create(ctx, "# Old\nbody", ptr(int64(777777)))
	require.NoError(t, err)
	n.Shared = true
	_, err = e.repo.Put(ctx, n)
	require.NoError(t, err)

	e.clock.Advance(time.Hour)
	updated, err := e.notes.Update(ctx, 777777, "## New title\nnew body")
	require.NoError(t, err)
	require.NotNil(t, updated)

	stored := e.get(t, 777777)
	assert.Equal(t, int64(777777), stored.ID)
	assert.True(t, stored.Shared)
	assert.Equal(t, "New title", stored.TitleText)
	assert.Equal(t, "New title\nnew body", stored.PlainText)
	assert.Equal(t, "09:30 15/10/2026", stored.DateString)
	assert.True(t, stored.ISODate.Equal(t0.Add(time.Hour)))
	require.Equal(t, 1, e.count(t))
}

func TestUpdate_UnknownIDIsIgnored(t *testing.T) {
	e := newEnv(t)

	n, err := e.notes.Update(context.Background(), 999999, "# ghost")
	require.NoError(t, err)
	require.Nil(t, n)
	require.Equal(t, 0, e.count(t))
}

func TestDateFormat_TimeZone(t *testing.T) {
	f := DateFormat{Location: time.FixedZone("ICT", 7*60*60)}
	require.Equal(t, "15:30 15/10/2026", f.format(t0))

	f = DateFormat{Location: time.UTC, Layout: time.RFC3339}
	require.Equal(t, "2026-10-15T08:30:00Z", f.format(t0))
}

func seed(t *testing.T, e *env, items map[int64]string) {
	t.Helper()
	for id, content := range items {
		_, err := e.notes.Create(context.Background(), content, ptr(id))
		require.NoError(t, err)
	}
}

func titles(list []models.Note) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.TitleText
	}
	return out
}

func TestList_UsesSavedSortOrder(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.notes.Create(ctx, "# Banana\nzz", ptr(int64(100001)))
	require.NoError(t, err)
	e.clock.Advance(time.Minute)
	_, err = e.notes.Create(ctx, "# Apple\naa", ptr(int64(100002)))
	require.NoError(t, err)

	field, err := e.notes.SortOrder(ctx)
	require.NoError(t, err)
	require.Equal(t, models.SortByTitle, field)

	list, err := e.notes.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"Apple", "Banana"}, titles(list))

	require.NoError(t, e.notes.SetSortOrder(ctx, models.SortByDate))
	list, err = e.notes.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"Banana", "Apple"}, titles(list))

	list, err = e.notes.List(ctx, models.SortByTitle)
	require.NoError(t, err)
	require.Equal(t, []string{"Apple", "Banana"}, titles(list))
}

func TestSortOrder_IgnoresGarbage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.notes.SetSortOrder(ctx, models.SortField("color")))
	field, err := e.notes.SortOrder(ctx)
	require.NoError(t, err)
	require.Equal(t, models.SortByTitle, field)
}

func TestSearch_CaseInsensitive(t *testing.T) {
	e := newEnv(t)
	seed(t, e, map[int64]string{
		100001: "# Shopping\nmilk and EGGS",
		100002: "# Eggs benedict\nrecipe",
		100003: "# Travel\nHà Nội",
	})

	list, err := e.notes.Search(context.Background(), "eggs")
	require.NoError(t, err)
	require.Equal(t, []string{"Eggs benedict", "Shopping"}, titles(list))

	list, err = e.notes.Search(context.Background(), "HÀ NỘI")
	require.NoError(t, err)
	require.Equal(t, []string{"Travel"}, titles(list))

	list, err = e.notes.Search(context.Background(), "  ")
	require.NoError(t, err)
	require.Len(t, list, 3)
}

func TestDelete_SingleAndMany(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seed(t, e, map[int64]string{100001: "# a", 100002: "# b", 100003: "# c"})
	e.session.SetActive(100002)

	require.NoError(t, e.notes.Delete(ctx, 100001))
	require.Equal(t, 2, e.count(t))

	require.NoError(t, e.notes.Delete(ctx, 100002, 100003))
	require.Equal(t, 0, e.count(t))

	_, ok := e.session.ActiveID()
	require.False(t, ok, "deleting the active note clears it")

	require.NoError(t, e.notes.Delete(ctx))
}

func TestConfirmDelete_DefaultsToTrue(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	v, err := e.notes.ConfirmDelete(ctx)
	require.NoError(t, err)
	require.True(t, v)

	require.NoError(t, e.notes.SetConfirmDelete(ctx, false))
	v, err = e.notes.ConfirmDelete(ctx)
	require.NoError(t, err)
	require.False(t, v)
}

func TestRandomIDs_InRange(t *testing.T) {
	g := RandomIDs()
	for range 1000 {
		id := g.NextID()
		require.True(t, ValidID(id), "id %d out of range", id)
	}
	require.False(t, ValidID(99999))
	require.False(t, ValidID(1000000000))
}
