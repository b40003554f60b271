package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaledScore_ZeroTotal(t *testing.T) {
	// total == 0 определен как минимальный балл, не ошибка
	assert.Equal(t, MinScaledScore, ScaledScore(0, 0))
	assert.Equal(t, MinScaledScore, ScaledScore(5, 0))
	assert.Equal(t, MinScaledScore, ScaledScore(-1, 0))
}

func TestScaledScore_Bounds(t *testing.T) {
	// Результат всегда в пределах [200, 800]
	for total := 1; total <= 60; total++ {
		for correct := 0; correct <= total; correct++ {
			score := ScaledScore(correct, total)
			assert.GreaterOrEqual(t, score, MinScaledScore, "балл не может быть ниже минимума")
			assert.LessOrEqual(t, score, MaxScaledScore, "балл не может быть выше максимума")
		}
	}
}

func TestScaledScore_Extremes(t *testing.T) {
	assert.Equal(t, MinScaledScore, ScaledScore(0, 54), "ноль правильных - минимальный балл")
	assert.Equal(t, MaxScaledScore, ScaledScore(54, 54), "все правильные - максимальный балл")
}

func TestScaledScore_Monotonic(t *testing.T) {
	// Больше правильных ответов никогда не дает меньший балл
	for _, total := range []int{1, 10, 27, 44, 54, 100} {
		prev := MinScaledScore
		for correct := 0; correct <= total; correct++ {
			score := ScaledScore(correct, total)
			assert.GreaterOrEqual(t, score, prev,
				"кривая должна быть монотонной: correct=%d total=%d", correct, total)
			prev = score
		}
	}
}

func TestScaledScore_ClampsOutOfRangeInputs(t *testing.T) {
	// correct > total и correct < 0 приводятся к границам
	assert.Equal(t, ScaledScore(10, 10), ScaledScore(15, 10))
	assert.Equal(t, ScaledScore(0, 10), ScaledScore(-3, 10))
}

func TestScaledScore_Idempotent(t *testing.T) {
	// Одинаковые входы - одинаковый результат
	first := ScaledScore(33, 54)
	second := ScaledScore(33, 54)
	assert.Equal(t, first, second)
}

func TestCalculateSATScore_Total(t *testing.T) {
	// Arrange & Act
	score := CalculateSATScore(40, 54, 30, 44)

	// Assert
	assert.Equal(t, score.ReadingWritingScore+score.MathScore, score.TotalScore,
		"итог должен быть суммой секций")
	assert.GreaterOrEqual(t, score.TotalScore, 2*MinScaledScore)
	assert.LessOrEqual(t, score.TotalScore, 2*MaxScaledScore)
}

func TestCalculateSATScore_EmptySections(t *testing.T) {
	// Обе секции пустые - оба балла минимальные
	score := CalculateSATScore(0, 0, 0, 0)
	assert.Equal(t, MinScaledScore, score.ReadingWritingScore)
	assert.Equal(t, MinScaledScore, score.MathScore)
	assert.Equal(t, 2*MinScaledScore, score.TotalScore)
}
