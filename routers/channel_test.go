package routers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"studio/models"
	"studio/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type channelListData struct {
	Channels []models.ChannelSummary `json:"channels"`
}

func TestHealthz(t *testing.T) {
	env := setup(t)
	status, body := env.do(t, "", http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Status)
}

func TestChannelsRequireSession(t *testing.T) {
	env := setup(t)
	status, body := env.do(t, "", http.MethodGet, "/channels", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, body.Status)
}

func TestChannelCreateThenGet(t *testing.T) {
	env := setup(t)

	status, body := env.do(t, alice, http.MethodPost, "/channels", map[string]string{"title": "  Knife Skills  "})
	require.Equal(t, http.StatusCreated, status)
	var created models.Channel
	decode(t, body, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Knife Skills", created.Title)
	assert.Equal(t, alice, created.CreatedByClerkUserID)

	status, body = env.do(t, alice, http.MethodGet, "/channels/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var fetched models.Channel
	decode(t, body, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, alice, fetched.CreatedByClerkUserID)
}

func TestChannelCreateValidation(t *testing.T) {
	env := setup(t)

	status, body := env.do(t, alice, http.MethodPost, "/channels", map[string]string{"title": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	var errs map[string]string
	decode(t, body, &errs)
	assert.Equal(t, "Title is required!", errs["title"])

	status, _ = env.do(t, alice, http.MethodPost, "/channels", "{not json")
	assert.Equal(t, http.StatusBadRequest, status)

	var count int64
	require.NoError(t, env.db.Model(&models.Channel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRequestBodyIsCapped(t *testing.T) {
	env := setup(t)

	status, body := env.do(t, alice, http.MethodPost, "/channels", map[string]string{"title": strings.Repeat("a", 20<<10)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "Request body too large!", body.Message)

	var count int64
	require.NoError(t, env.db.Model(&models.Channel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestChannelListIsScopedOrderedAndCounted(t *testing.T) {
	env := setup(t)
	base := time.Now().UTC().Add(-time.Hour)

	alpha := testutil.SeedChannel(t, env.db, alice, "Alpha Cooking", base)
	beta := testutil.SeedChannel(t, env.db, alice, "Beta Baking", base.Add(time.Minute))
	testutil.SeedChannel(t, env.db, bob, "Alpha Gardening", base.Add(2*time.Minute))
	testutil.SeedChapter(t, env.db, alpha.ID, "Knives", base)
	testutil.SeedChapter(t, env.db, alpha.ID, "Stocks", base.Add(time.Second))

	status, body := env.do(t, alice, http.MethodGet, "/channels", nil)
	require.Equal(t, http.StatusOK, status)
	var list channelListData
	decode(t, body, &list)
	require.Len(t, list.Channels, 2)
	assert.Equal(t, beta.ID, list.Channels[0].ID, "newest first")
	assert.Equal(t, int64(0), list.Channels[0].ChapterCount)
	assert.Equal(t, alpha.ID, list.Channels[1].ID)
	assert.Equal(t, int64(2), list.Channels[1].ChapterCount)

	status, body = env.do(t, alice, http.MethodGet, "/channels?query=ALPHA", nil)
	require.Equal(t, http.StatusOK, status)
	list = channelListData{}
	decode(t, body, &list)
	require.Len(t, list.Channels, 1)
	assert.Equal(t, alpha.ID, list.Channels[0].ID)

	status, body = env.do(t, bob, http.MethodGet, "/channels", nil)
	require.Equal(t, http.StatusOK, status)
	list = channelListData{}
	decode(t, body, &list)
	require.Len(t, list.Channels, 1)
	assert.Equal(t, "Alpha Gardening", list.Channels[0].Title)
}

func TestChannelListEmpty(t *testing.T) {
	env := setup(t)
	status, body := env.do(t, alice, http.MethodGet, "/channels", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"channels":[]}`, string(body.Data))
}

func TestChannelUpdate(t *testing.T) {
	env := setup(t)
	channel := testutil.SeedChannel(t, env.db, alice, "Old", time.Now().UTC())

	status, body := env.do(t, alice, http.MethodPut, "/channels/"+channel.ID, map[string]string{"title": "New"})
	require.Equal(t, http.StatusOK, status)
	var updated models.Channel
	decode(t, body, &updated)
	assert.Equal(t, "New", updated.Title)

	var stored models.Channel
	require.NoError(t, env.db.First(&stored, "id = ?", channel.ID).Error)
	assert.Equal(t, "New", stored.Title)
}

func TestChannelOwnershipIsEnforced(t *testing.T) {
	env := setup(t)
	channel := testutil.SeedChannel(t, env.db, alice, "Private", time.Now().UTC())

	status, _ := env.do(t, bob, http.MethodGet, "/channels/"+channel.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, bob, http.MethodPut, "/channels/"+channel.ID, map[string]string{"title": "Mine now"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, bob, http.MethodDelete, "/channels/"+channel.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, bob, http.MethodGet, "/channels/"+channel.ID+"/stats", nil)
	assert.Equal(t, http.StatusNotFound, status)

	var stored models.Channel
	require.NoError(t, env.db.First(&stored, "id = ?", channel.ID).Error)
	assert.Equal(t, "Private", stored.Title)
}

func TestChannelInvalidID(t *testing.T) {
	env := setup(t)
	status, body := env.do(t, alice, http.MethodGet, "/channels/42", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid Channel ID!", body.Message)
}

func TestChannelDeleteCascades(t *testing.T) {
	env := setup(t)
	now := time.Now().UTC()
	channel := testutil.SeedChannel(t, env.db, alice, "Doomed", now)
	chapter := testutil.SeedChapter(t, env.db, channel.ID, "One", now)
	testutil.SeedVideo(t, env.db, chapter.ID, "Intro", "key-intro.mp4", 10)
	testutil.SeedVideo(t, env.db, chapter.ID, "Outro", "key-outro.mp4", 20)

	other := testutil.SeedChannel(t, env.db, alice, "Survivor", now)
	otherChapter := testutil.SeedChapter(t, env.db, other.ID, "Kept", now)
	testutil.SeedVideo(t, env.db, otherChapter.ID, "Kept", "key-kept.mp4", 5)

	status, _ := env.do(t, alice, http.MethodDelete, "/channels/"+channel.ID, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.do(t, alice, http.MethodGet, "/channels/"+channel.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var chapters, videos int64
	require.NoError(t, env.db.Model(&models.Chapter{}).Count(&chapters).Error)
	require.NoError(t, env.db.Model(&models.Video{}).Count(&videos).Error)
	assert.Equal(t, int64(1), chapters)
	assert.Equal(t, int64(1), videos)

	var queued []string
	require.NoError(t, env.db.Model(&models.PendingFileDeletion{}).Order("file_key").Pluck("file_key", &queued).Error)
	assert.Equal(t, []string{"key-intro.mp4", "key-outro.mp4"}, queued)
}

func TestChannelStats(t *testing.T) {
	env := setup(t)
	now := time.Now().UTC()
	channel := testutil.SeedChannel(t, env.db, alice, "Stats", now)
	one := testutil.SeedChapter(t, env.db, channel.ID, "One", now)
	two := testutil.SeedChapter(t, env.db, channel.ID, "Two", now)
	testutil.SeedVideo(t, env.db, one.ID, "A", "a.mp4", 30)
	testutil.SeedVideo(t, env.db, two.ID, "B", "b.mp4", 12.5)
	draft := testutil.SeedVideo(t, env.db, two.ID, "C", "c.mp4", 7.5)
	require.NoError(t, env.db.Model(&draft).Update("is_published", false).Error)

	status, body := env.do(t, alice, http.MethodGet, "/channels/"+channel.ID+"/stats", nil)
	require.Equal(t, http.StatusOK, status)
	var stats struct {
		ChapterCount        int64   `json:"chapter_count"`
		VideoCount          int64   `json:"video_count"`
		PublishedVideoCount int64   `json:"published_video_count"`
		TotalDuration       float64 `json:"total_duration"`
		VideosThisMonth     int64   `json:"videos_this_month"`
	}
	decode(t, body, &stats)
	assert.Equal(t, int64(2), stats.ChapterCount)
	assert.Equal(t, int64(3), stats.VideoCount)
	assert.Equal(t, int64(2), stats.PublishedVideoCount)
	assert.InDelta(t, 50.0, stats.TotalDuration, 0.001)
	assert.Equal(t, int64(3), stats.VideosThisMonth)
}
