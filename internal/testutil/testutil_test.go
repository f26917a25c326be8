package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/turtacn/molmatch/internal/infrastructure/monitoring/logging"
)

func TestRecordingLogger(t *testing.T) {
	l := NewRecordingLogger()
	child := l.Named("screen").With(logging.JobID("j1"))
	child.Warn("target failed", logging.MoleculeID("m1"))
	l.Info("done")

	msgs := l.Messages()
	assert.Len(t, msgs, 2)
	assert.Equal(t, "screen", msgs[0].Name)
	assert.True(t, l.HasMessage("warn", "target failed"))
	v, ok := l.FieldValue("target failed", "job_id")
	assert.True(t, ok)
	assert.Equal(t, "j1", v)
	_, ok = l.FieldValue("done", "job_id")
	assert.False(t, ok)
}

func TestFixtures(t *testing.T) {
	assert.Equal(t, 6, Hexane().AtomCount())
	assert.Equal(t, 6, Benzene().BondCount())
	assert.Equal(t, 11, Naphthalene().BondCount())
	assert.Equal(t, 7, Toluene().AtomCount())
	assert.Equal(t, 7, TolueneRenumbered().BondCount())
	assert.Equal(t, 3, Cyclopropane().BondCount())
	assert.Equal(t, 4, EthanolWithH().AtomCount())
	assert.Equal(t, 0, Methane().BondCount())
}

//Personal.AI order the ending
