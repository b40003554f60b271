// Package scoring преобразует сырые количества правильных ответов в
// шкалированные баллы SAT (200-800 на секцию) по фиксированной кривой.
package scoring

// Границы шкалированного балла одной секции
const (
	MinScaledScore = 200
	MaxScaledScore = 800
)

// anchor - опорная точка кривой: процент правильных ответов → шкалированный балл
type anchor struct {
	percent int
	score   int
}

// Кривая перевода. Нелинейная: нижняя половина шкалы растет медленнее,
// верхняя - быстрее, как в реальных таблицах перевода SAT.
// Точки строго возрастают по обоим полям, что гарантирует монотонность.
var curve = []anchor{
	{0, 200},
	{10, 230},
	{20, 280},
	{30, 330},
	{40, 390},
	{50, 450},
	{60, 510},
	{70, 570},
	{80, 640},
	{90, 720},
	{100, 800},
}

// Score содержит шкалированные баллы обеих секций и их сумму
type Score struct {
	ReadingWritingScore int `json:"readingWritingScore"`
	MathScore           int `json:"mathScore"`
	TotalScore          int `json:"totalScore"`
}

// ScaledScore переводит сырой результат секции в шкалированный балл.
// total == 0 определен как минимальный балл, а не ошибка: деление на ноль
// никогда не должно всплывать наружу. Функция чистая и идемпотентная.
func ScaledScore(correct, total int) int {
	if total <= 0 {
		return MinScaledScore
	}
	if correct < 0 {
		correct = 0
	}
	if correct > total {
		correct = total
	}

	percent := correct * 100 / total

	// Ищем отрезок кривой, содержащий процент, и интерполируем внутри него
	for i := 1; i < len(curve); i++ {
		if percent > curve[i].percent {
			continue
		}
		lo, hi := curve[i-1], curve[i]
		span := hi.percent - lo.percent
		score := lo.score + (hi.score-lo.score)*(percent-lo.percent)/span
		// Округляем вниз до кратного 10, как в официальных таблицах перевода
		return score / 10 * 10
	}

	return MaxScaledScore
}

// CalculateSATScore вычисляет баллы обеих секций и итог
func CalculateSATScore(rwCorrect, rwTotal, mathCorrect, mathTotal int) Score {
	rw := ScaledScore(rwCorrect, rwTotal)
	math := ScaledScore(mathCorrect, mathTotal)
	return Score{
		ReadingWritingScore: rw,
		MathScore:           math,
		TotalScore:          rw + math,
	}
}
