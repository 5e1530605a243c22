package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/certfleet/keysync/internal/model"
)

func TestRendererOutcomePlainOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := newRenderer(&buf)
	require.False(t, r.styled, "non-file writers stay unstyled")

	r.outcome(&model.Outcome{
		EntryID: "root_ca",
		Changed: true,
		Status:  model.StatusChanged,
		Message: "Certificate was added to keystore",
		Diff:    model.Diff{Before: "", After: "rootCA"},
	})

	out := buf.String()
	require.Contains(t, out, "changed")
	require.Contains(t, out, "root_ca")
	require.Contains(t, out, `before="" after="rootCA"`)
}

func TestRendererSkipsDiffWhenUnchanged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := newRenderer(&buf)

	r.outcome(&model.Outcome{
		EntryID: "root_ca",
		Status:  model.StatusUnchanged,
		Message: "alias matches",
		Diff:    model.Diff{Before: "rootCA", After: "rootCA"},
	})

	require.NotContains(t, buf.String(), "before=")
}

func TestRendererSummaries(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := newRenderer(&buf)

	r.applySummary(2, 5, false)
	require.Contains(t, buf.String(), "applied: 2 changed, 3 unchanged")

	buf.Reset()
	r.applySummary(1, 1, true)
	require.Contains(t, buf.String(), "planned: 1 changed, 0 unchanged")

	buf.Reset()
	r.verifySummary(0, 3)
	require.Contains(t, buf.String(), "all 3 entries satisfied")

	buf.Reset()
	r.verifySummary(2, 3)
	require.Contains(t, buf.String(), "2 of 3 entries out of sync")
}

func TestRendererVerifyResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := newRenderer(&buf)

	r.verifyResult(&model.VerifyResult{EntryID: "root_ca", Alias: "rootCA", Status: model.StatusMissing, Message: "not in keystore"})
	require.Contains(t, buf.String(), "missing")
	require.Contains(t, buf.String(), "root_ca")
}
