package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RowanDark/0xcrack/internal/cipher"
	"github.com/RowanDark/0xcrack/internal/crack"
	"github.com/RowanDark/0xcrack/internal/history"
	"github.com/RowanDark/0xcrack/internal/logging"
	"github.com/RowanDark/0xcrack/internal/scorer"
)

// pangram is "The quick brown fox jumps over the lazy dog" shifted by 3.
const pangram = "Wkh txlfn eurzq ira mxpsv ryhu wkh odcb grj"

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	b := crack.DefaultBounds()
	b.MaxVigenereKey, b.MaxBeaufortKey, b.MaxHybridKey = 2, 2, 2
	engine, err := crack.New(scorer.Default(), crack.Config{TopK: 5, Workers: 2, ChunkSize: 256, Bounds: b})
	require.NoError(t, err)
	svc, err := New(engine, opts...)
	require.NoError(t, err)
	return svc
}

func auditEvents(t *testing.T, buf *bytes.Buffer) []logging.AuditEvent {
	t.Helper()
	var out []logging.AuditEvent
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var ev logging.AuditEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		out = append(out, ev)
	}
	return out
}

func TestCrackRecordsHistoryAndAudit(t *testing.T) {
	store, err := history.Open(history.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	buf := &bytes.Buffer{}
	audit, err := logging.NewAuditLogger("test", logging.WithoutStdout(), logging.WithWriter(buf))
	require.NoError(t, err)

	svc := newTestService(t, WithHistory(store), WithAudit(audit))
	ctx := context.Background()

	result, err := svc.Crack(ctx, CrackRequest{Ciphertext: pangram, Family: "caesar", TopK: 3})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 3)
	best, _ := result.Best()
	require.Equal(t, "shift 3", best.Params)
	require.Equal(t, "The quick brown fox jumps over the lazy dog", best.Plaintext)

	saved, err := svc.Run(ctx, result.ID)
	require.NoError(t, err)
	require.Equal(t, result.Evaluated, saved.Evaluated)
	require.Equal(t, best.Plaintext, saved.Candidates[0].Plaintext)

	runs, err := svc.Runs(ctx, history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, runs, 1)

	events := auditEvents(t, buf)
	require.Len(t, events, 2)
	require.Equal(t, logging.EventCrackStarted, events[0].EventType)
	require.Equal(t, logging.EventCrackCompleted, events[1].EventType)
	require.Equal(t, result.ID, events[1].RunID)
	require.Equal(t, "shift 3", events[1].Metadata["best_params"])
}

func TestCrackValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Crack(ctx, CrackRequest{})
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Crack(ctx, CrackRequest{Ciphertext: "abc", TopK: -1})
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Crack(ctx, CrackRequest{Ciphertext: "abc", Family: "enigma"})
	require.ErrorIs(t, err, crack.ErrUnknownFamily)

	_, err = svc.Crack(ctx, CrackRequest{Ciphertext: strings.Repeat("a", MaxCiphertextLength+1)})
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.ErrorContains(t, err, "textlimit")
}

func TestTransformTextLimit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// The limit counts characters, not bytes.
	input := strings.Repeat("é", MaxCiphertextLength)
	out, err := svc.Transform(ctx, TransformRequest{Operation: "reverse_decrypt", Input: input})
	require.NoError(t, err)
	require.Equal(t, input, out)

	_, err = svc.Transform(ctx, TransformRequest{Operation: "reverse_decrypt", Input: input + "x"})
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestTransformHugeRailCount(t *testing.T) {
	svc := newTestService(t)
	out, err := svc.Transform(context.Background(), TransformRequest{
		Operation: "railfence_decrypt",
		Config:    map[string]interface{}{"rails": 2_000_000_000},
		Input:     "hello",
	})
	require.NoError(t, err)
	require.Equal(t, "hello", out)
}

func TestCrackFold(t *testing.T) {
	svc := newTestService(t)
	result, err := svc.Crack(context.Background(), CrackRequest{Ciphertext: "Wkh txlfn eurzq ira mxpsv ryhü wkh odcb grj", Family: "1", Fold: true})
	require.NoError(t, err)
	require.Equal(t, pangram, result.Ciphertext)
	best, _ := result.Best()
	require.Equal(t, "shift 3", best.Params)
}

func TestCrackCancelledAudited(t *testing.T) {
	buf := &bytes.Buffer{}
	audit, err := logging.NewAuditLogger("test", logging.WithoutStdout(), logging.WithWriter(buf))
	require.NoError(t, err)
	svc := newTestService(t, WithAudit(audit))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Crack(ctx, CrackRequest{Ciphertext: "bxrworn, dodcx iy lbks !"})
	require.ErrorIs(t, err, context.Canceled)

	events := auditEvents(t, buf)
	require.Len(t, events, 2)
	require.Equal(t, logging.EventCrackFailed, events[1].EventType)
	require.Equal(t, logging.OutcomeFailure, events[1].Outcome)
}

func TestTransform(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	out, err := svc.Transform(ctx, TransformRequest{
		Operation: "caesar_decrypt",
		Config:    map[string]interface{}{"shift": 3},
		Input:     "Khoor, Zruog!",
	})
	require.NoError(t, err)
	require.Equal(t, "Hello, World!", out)

	out, err = svc.Transform(ctx, TransformRequest{
		Pipeline: []cipher.OperationConfig{
			{Name: "atbash_decrypt"},
			{Name: "vigenere_decrypt", Parameters: map[string]interface{}{"key": "key"}},
		},
		Input: "attack at dawn",
	})
	require.NoError(t, err)
	hybrid, err := cipher.Decrypt(cipher.KindHybrid, "attack at dawn", cipher.KeyStream{10, 4, 24})
	require.NoError(t, err)
	require.Equal(t, hybrid, out)

	_, err = svc.Transform(ctx, TransformRequest{Input: "x"})
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Transform(ctx, TransformRequest{Operation: "enigma_decrypt", Input: "x"})
	require.ErrorIs(t, err, cipher.ErrUnknownOperation)

	_, err = svc.Transform(ctx, TransformRequest{Operation: "railfence_decrypt", Config: map[string]interface{}{"rails": 1}, Input: "x"})
	require.ErrorIs(t, err, cipher.ErrInvalidKey)
}

func TestDetect(t *testing.T) {
	svc := newTestService(t)
	results, err := svc.Detect(context.Background(), "23 15 31 31 34")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, cipher.KindPolybius, results[0].Family)

	_, err = svc.Detect(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCiphers(t *testing.T) {
	svc := newTestService(t)
	infos := svc.Ciphers()
	require.Len(t, infos, 13)
	require.Equal(t, 1, infos[0].Number)
	require.Equal(t, "caesar", infos[0].Name)
	require.Equal(t, uint64(26), infos[0].KeySpace)
	require.Contains(t, infos[0].Operations, "caesar_decrypt")
	require.Contains(t, infos[0].Operations, "caesar_encrypt")
	require.Equal(t, "Hybrid", infos[12].Label)
	require.Equal(t, uint64(26+676), infos[12].KeySpace)
}

func TestHistoryDisabled(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Runs(context.Background(), history.ListOptions{})
	require.True(t, errors.Is(err, ErrHistoryDisabled))
	_, err = svc.Run(context.Background(), "x")
	require.ErrorIs(t, err, ErrHistoryDisabled)
	require.ErrorIs(t, svc.DeleteRun(context.Background(), "x"), ErrHistoryDisabled)
}

func TestDeleteRun(t *testing.T) {
	store, err := history.Open(history.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	svc := newTestService(t, WithHistory(store))
	ctx := context.Background()

	result, err := svc.Crack(ctx, CrackRequest{Ciphertext: pangram, Family: "rot13"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteRun(ctx, result.ID))
	_, err = svc.Run(ctx, result.ID)
	require.ErrorIs(t, err, history.ErrNotFound)
	require.ErrorIs(t, svc.DeleteRun(ctx, result.ID), history.ErrNotFound)
}
