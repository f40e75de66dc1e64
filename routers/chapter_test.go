package routers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"studio/models"
	"studio/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chapterListData struct {
	Chapters []models.ChapterSummary `json:"chapters"`
}

func TestChapterCreateThenGet(t *testing.T) {
	env := setup(t)
	channel := testutil.SeedChannel(t, env.db, alice, "Channel", time.Now().UTC())

	status, body := env.do(t, alice, http.MethodPost, "/channels/"+channel.ID+"/chapters", map[string]string{"title": "Basics"})
	require.Equal(t, http.StatusCreated, status)
	var created models.Chapter
	decode(t, body, &created)
	assert.Equal(t, channel.ID, created.ChannelID)
	assert.Equal(t, "Basics", created.Title)

	status, body = env.do(t, alice, http.MethodGet, "/chapters/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var fetched models.Chapter
	decode(t, body, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Basics", fetched.Title)
	assert.Equal(t, channel.ID, fetched.ChannelID)
}

func TestChapterListOrderAndLimit(t *testing.T) {
	env := setup(t)
	base := time.Now().UTC().Add(-time.Hour)
	channel := testutil.SeedChannel(t, env.db, alice, "Channel", base)

	var ids []string
	for i := 0; i < 12; i++ {
		chapter := testutil.SeedChapter(t, env.db, channel.ID, fmt.Sprintf("Chapter %02d", i), base.Add(time.Duration(i)*time.Minute))
		ids = append(ids, chapter.ID)
	}
	testutil.SeedVideo(t, env.db, ids[0], "Clip", "clip.mp4", 3)

	status, body := env.do(t, alice, http.MethodGet, "/channels/"+channel.ID+"/chapters", nil)
	require.Equal(t, http.StatusOK, status)
	var list chapterListData
	decode(t, body, &list)
	require.Len(t, list.Chapters, 10, "default limit")
	for i, chapter := range list.Chapters {
		assert.Equal(t, ids[i], chapter.ID, "oldest first")
	}
	assert.Equal(t, int64(1), list.Chapters[0].VideoCount)
	assert.Equal(t, int64(0), list.Chapters[1].VideoCount)

	status, body = env.do(t, alice, http.MethodGet, "/channels/"+channel.ID+"/chapters?limit=3", nil)
	require.Equal(t, http.StatusOK, status)
	list = chapterListData{}
	decode(t, body, &list)
	assert.Len(t, list.Chapters, 3)

	status, _ = env.do(t, alice, http.MethodGet, "/channels/"+channel.ID+"/chapters?limit=0", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestChapterUpdate(t *testing.T) {
	env := setup(t)
	channel := testutil.SeedChannel(t, env.db, alice, "Channel", time.Now().UTC())
	chapter := testutil.SeedChapter(t, env.db, channel.ID, "Draft", time.Now().UTC())

	status, body := env.do(t, alice, http.MethodPut, "/chapters/"+chapter.ID, map[string]string{"title": "Final"})
	require.Equal(t, http.StatusOK, status)
	var updated models.Chapter
	decode(t, body, &updated)
	assert.Equal(t, "Final", updated.Title)

	status, _ = env.do(t, alice, http.MethodPut, "/chapters/"+chapter.ID, map[string]string{"title": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestChapterDeleteRemovesVideos(t *testing.T) {
	env := setup(t)
	channel := testutil.SeedChannel(t, env.db, alice, "Channel", time.Now().UTC())
	chapter := testutil.SeedChapter(t, env.db, channel.ID, "Gone", time.Now().UTC())
	testutil.SeedVideo(t, env.db, chapter.ID, "Clip", "gone.mp4", 3)

	status, _ := env.do(t, alice, http.MethodDelete, "/chapters/"+chapter.ID, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.do(t, alice, http.MethodGet, "/chapters/"+chapter.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var videos int64
	require.NoError(t, env.db.Model(&models.Video{}).Count(&videos).Error)
	assert.Zero(t, videos)

	var queued []string
	require.NoError(t, env.db.Model(&models.PendingFileDeletion{}).Pluck("file_key", &queued).Error)
	assert.Equal(t, []string{"gone.mp4"}, queued)

	var channels int64
	require.NoError(t, env.db.Model(&models.Channel{}).Count(&channels).Error)
	assert.Equal(t, int64(1), channels, "parent channel stays")
}

func TestChapterOwnershipIsEnforced(t *testing.T) {
	env := setup(t)
	channel := testutil.SeedChannel(t, env.db, alice, "Channel", time.Now().UTC())
	chapter := testutil.SeedChapter(t, env.db, channel.ID, "Private", time.Now().UTC())

	cases := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/channels/" + channel.ID + "/chapters", nil},
		{http.MethodPost, "/channels/" + channel.ID + "/chapters", map[string]string{"title": "Intruder"}},
		{http.MethodGet, "/chapters/" + chapter.ID, nil},
		{http.MethodPut, "/chapters/" + chapter.ID, map[string]string{"title": "Intruder"}},
		{http.MethodDelete, "/chapters/" + chapter.ID, nil},
		{http.MethodGet, "/chapters/" + chapter.ID + "/videos", nil},
	}
	for _, tc := range cases {
		status, _ := env.do(t, bob, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, status, "%s %s", tc.method, tc.path)
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Chapter{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored models.Chapter
	require.NoError(t, env.db.First(&stored, "id = ?", chapter.ID).Error)
	assert.Equal(t, "Private", stored.Title)
}
