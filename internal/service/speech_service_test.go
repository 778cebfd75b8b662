package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chatshare-be/internal/dto"
	"chatshare-be/internal/entity"
	"chatshare-be/internal/pkg/apperror"
	"chatshare-be/internal/repository/implementation"
	"chatshare-be/internal/repository/specification"
	"chatshare-be/pkg/filestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSynthesizer struct {
	audio []byte
	err   error
	calls int
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func TestEstimateAudioMinutes(t *testing.T) {
	words := func(n int) string { return strings.TrimSpace(strings.Repeat("word ", n)) }

	assert.Equal(t, 0.1, EstimateAudioMinutes("hi", 1))
	assert.Equal(t, 1.0, EstimateAudioMinutes(words(150), 1))
	assert.Equal(t, 0.5, EstimateAudioMinutes(words(150), 2))
	assert.Equal(t, 2.0, EstimateAudioMinutes(words(300), 0))
	assert.Equal(t, 0.33, EstimateAudioMinutes(words(50), 1))
}

func TestSpeech_Generate(t *testing.T) {
	db, factory := newTestFactory(t)
	ctx := context.Background()
	user := seedUser(t, db, "speaker")

	store, err := filestore.NewLocalStore(t.TempDir(), "http://cdn.test/uploads")
	require.NoError(t, err)
	synth := &fakeSynthesizer{audio: []byte("mp3")}
	svc := NewSpeechService(factory, synth, store, 10, nopLogger())

	_, err = svc.Generate(ctx, user.Id, &dto.GenerateAudioRequest{Text: "   "})
	assertKind(t, err, apperror.KindValidation, "No text provided")

	res, err := svc.Generate(ctx, user.Id, &dto.GenerateAudioRequest{Text: "hello world"})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.test/uploads/text_to_speech/"+res.Id.String()+".mp3", res.AudioURL)
	assert.Equal(t, 0.1, res.Minutes)

	stored, err := store.Get(ctx, "text_to_speech/"+res.Id.String()+".mp3")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3"), stored)

	row, err := implementation.NewSpeechRepository(db).FindOne(ctx, specification.ByID{ID: res.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.SpeechStatusDone, row.Status)
	assert.Equal(t, "alloy", row.Voice)

	profile, err := implementation.NewUserRepository(db).FindProfile(ctx, user.Id)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.InDelta(t, 0.1, profile.AudioMinutesUsed, 0.0001)
}

func TestSpeech_FreeLimit(t *testing.T) {
	db, factory := newTestFactory(t)
	ctx := context.Background()
	user := seedUser(t, db, "speaker")
	users := implementation.NewUserRepository(db)
	require.NoError(t, users.SaveProfile(ctx, &entity.UserProfile{UserId: user.Id, AudioMinutesUsed: 9.95}))

	store, err := filestore.NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)
	synth := &fakeSynthesizer{audio: []byte("mp3")}
	svc := NewSpeechService(factory, synth, store, 10, nopLogger())

	_, err = svc.Generate(ctx, user.Id, &dto.GenerateAudioRequest{Text: "over the cap"})
	assertKind(t, err, apperror.KindLimitReached, "Free audio limit reached.")
	assert.Zero(t, synth.calls)

	// Premium lifts the cap.
	require.NoError(t, users.SaveProfile(ctx, &entity.UserProfile{
		UserId:           user.Id,
		IsPremium:        true,
		PremiumExpiry:    ptrTime(time.Now().Add(24 * time.Hour)),
		AudioMinutesUsed: 9.95,
	}))
	_, err = svc.Generate(ctx, user.Id, &dto.GenerateAudioRequest{Text: "over the cap"})
	require.NoError(t, err)
}

func TestSpeech_SynthesisFailureMarksRow(t *testing.T) {
	db, factory := newTestFactory(t)
	ctx := context.Background()
	user := seedUser(t, db, "speaker")

	store, err := filestore.NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)
	synth := &fakeSynthesizer{err: errors.New("tts down")}
	svc := NewSpeechService(factory, synth, store, 10, nopLogger())

	_, err = svc.Generate(ctx, user.Id, &dto.GenerateAudioRequest{Text: "hello"})
	assertKind(t, err, apperror.KindUpstream, "Text-to-speech conversion failed")

	var rows []struct {
		Status string
		Error  string
	}
	require.NoError(t, db.Table("text_to_speech").Select("status, error").Scan(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "failed", rows[0].Status)
	assert.Equal(t, "tts down", rows[0].Error)

	profile, err := implementation.NewUserRepository(db).FindProfile(ctx, user.Id)
	require.NoError(t, err)
	assert.Nil(t, profile, "failed conversions are not metered")
}
