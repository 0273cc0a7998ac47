package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ifportal/portal-estudante/internal/domain"
)

func TestRawSubjectRecord_StageGrade(t *testing.T) {
	record := domain.RawSubjectRecord{
		"nota_etapa_1": map[string]interface{}{"nota": float64(72.5)},
		"nota_etapa_2": map[string]interface{}{"nota": nil},
		"nota_etapa_3": "not-an-object",
	}

	grade, ok := record.StageGrade("nota_etapa_1")
	assert.True(t, ok)
	assert.Equal(t, 72.5, grade)

	_, ok = record.StageGrade("nota_etapa_2")
	assert.False(t, ok, "a null nota counts as not posted")

	_, ok = record.StageGrade("nota_etapa_3")
	assert.False(t, ok)

	_, ok = record.StageGrade("nota_avaliacao_final")
	assert.False(t, ok)
}

func TestRawSubjectRecord_NumericCoercion(t *testing.T) {
	record := domain.RawSubjectRecord{
		"media_disciplina": "82.5",
		"numero_faltas":    float64(3),
		"carga_horaria":    nil,
		"situacao":         "Cursando",
	}

	assert.Equal(t, 82.5, record.Float("media_disciplina"))
	assert.Equal(t, 3, record.Int("numero_faltas"))
	assert.Zero(t, record.Float("carga_horaria"))
	assert.Zero(t, record.Int("missing_entirely"))
	assert.Equal(t, "Cursando", record.Situacao())
	assert.Empty(t, record.Name())
}

func TestSessionValidate(t *testing.T) {
	valid := domain.Session{
		ID:          "sid",
		AccessToken: "token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	assert.NoError(t, valid.Validate())

	missingID := valid
	missingID.ID = ""
	assert.Error(t, missingID.Validate())

	missingToken := valid
	missingToken.AccessToken = ""
	assert.Error(t, missingToken.Validate())

	zeroExpiry := valid
	zeroExpiry.ExpiresAt = time.Time{}
	assert.Error(t, zeroExpiry.Validate())
}
