package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_IsValidAnswerIndex(t *testing.T) {
	// Arrange
	question := &Question{
		Options: StringArray{"A", "B", "C", "D"},
	}

	// Act & Assert: валидные индексы
	assert.True(t, question.IsValidAnswerIndex(0), "Индекс 0 должен быть валидным")
	assert.True(t, question.IsValidAnswerIndex(3), "Индекс 3 должен быть валидным")

	// Assert: невалидные индексы
	assert.False(t, question.IsValidAnswerIndex(-1), "Отрицательный индекс должен быть невалидным")
	assert.False(t, question.IsValidAnswerIndex(4), "Индекс вне диапазона должен быть невалидным")
	assert.False(t, question.IsValidAnswerIndex(100), "Индекс далеко за пределами должен быть невалидным")
}

func TestQuestion_HasStoredImage(t *testing.T) {
	// Arrange
	testCases := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{"есть данные", []byte{0x89, 0x50, 0x4E, 0x47}, true},
		{"пустой срез", []byte{}, false},
		{"nil данные", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			question := &Question{ImageData: tc.data}
			assert.Equal(t, tc.expected, question.HasStoredImage())
		})
	}
}

func TestQuestion_IsPending(t *testing.T) {
	// Arrange
	pending := ReviewStatusPending
	approved := ReviewStatusApproved

	// Act & Assert
	assert.True(t, (&Question{ReviewStatus: &pending}).IsPending(), "Статус pending должен считаться ожидающим ревью")
	assert.False(t, (&Question{ReviewStatus: &approved}).IsPending(), "Одобренный вопрос не ожидает ревью")
	assert.False(t, (&Question{ReviewStatus: nil}).IsPending(), "Вопрос без статуса — доверенный, не ожидает ревью")
}

func TestQuestion_BeforeCreate_GeneratesUUID(t *testing.T) {
	// Arrange
	question := &Question{}

	// Act
	err := question.BeforeCreate(nil)

	// Assert
	require.NoError(t, err, "BeforeCreate не должен возвращать ошибку")
	assert.Len(t, question.ID, 36, "BeforeCreate должен сгенерировать UUID")
}

func TestQuestion_BeforeCreate_KeepsExistingID(t *testing.T) {
	// Arrange: вопрос с уже присвоенным идентификатором
	question := &Question{ID: "existing-id"}

	// Act
	err := question.BeforeCreate(nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "existing-id", question.ID, "Существующий ID не должен перезаписываться")
}

func TestQuestion_TableName(t *testing.T) {
	question := Question{}
	assert.Equal(t, "questions", question.TableName(), "TableName должен возвращать 'questions'")
}

func TestIsValidRating(t *testing.T) {
	// Act & Assert: допустимый диапазон 1-5
	for rating := 1; rating <= 5; rating++ {
		assert.True(t, IsValidRating(rating), "Оценка %d должна быть валидной", rating)
	}

	assert.False(t, IsValidRating(0), "Оценка 0 должна быть невалидной")
	assert.False(t, IsValidRating(6), "Оценка 6 должна быть невалидной")
	assert.False(t, IsValidRating(-1), "Отрицательная оценка должна быть невалидной")
}

// Тесты для StringArray (JSONB сериализация)

func TestStringArray_Scan_ValidJSON(t *testing.T) {
	// Arrange
	jsonBytes := []byte(`["Option 1", "Option 2", "Option 3"]`)
	var arr StringArray

	// Act
	err := arr.Scan(jsonBytes)

	// Assert
	require.NoError(t, err, "Scan не должен возвращать ошибку для валидного JSON")
	assert.Len(t, arr, 3, "Должно быть 3 элемента")
	assert.Equal(t, "Option 1", arr[0])
}

func TestStringArray_Scan_NullValue(t *testing.T) {
	// Arrange
	var arr StringArray

	// Act
	err := arr.Scan(nil)

	// Assert
	require.NoError(t, err, "Scan не должен возвращать ошибку для nil")
	assert.Len(t, arr, 0, "Для nil должен вернуться пустой массив")
}

func TestStringArray_Scan_InvalidType(t *testing.T) {
	// Arrange
	var arr StringArray

	// Act: передаём неподдерживаемый тип
	err := arr.Scan("not a byte slice")

	// Assert
	assert.Error(t, err, "Scan должен возвращать ошибку для неподдерживаемого типа")
}

func TestStringArray_Value_Empty(t *testing.T) {
	// Arrange
	var arr StringArray = nil

	// Act
	val, err := arr.Value()

	// Assert
	require.NoError(t, err, "Value не должен возвращать ошибку для nil")

	bytes, ok := val.([]byte)
	require.True(t, ok, "Value должен возвращать []byte")
	assert.Equal(t, "[]", string(bytes), "nil должен сериализоваться в []")
}

// Тесты для JSONMap (JSONB объекты: chart_data, breakdowns)

func TestJSONMap_Scan_ValidJSON(t *testing.T) {
	// Arrange
	jsonBytes := []byte(`{"type":"bar","correct":3}`)
	var m JSONMap

	// Act
	err := m.Scan(jsonBytes)

	// Assert
	require.NoError(t, err, "Scan не должен возвращать ошибку для валидного JSON")
	assert.Equal(t, "bar", m["type"])
	assert.Equal(t, float64(3), m["correct"])
}

func TestJSONMap_Scan_NullValue(t *testing.T) {
	// Arrange
	var m JSONMap

	// Act
	err := m.Scan(nil)

	// Assert
	require.NoError(t, err, "Scan не должен возвращать ошибку для nil")
	assert.Nil(t, m, "Для nil должна вернуться nil-карта")
}

func TestJSONMap_Value_Nil(t *testing.T) {
	// Arrange
	var m JSONMap

	// Act
	val, err := m.Value()

	// Assert
	require.NoError(t, err, "Value не должен возвращать ошибку для nil")
	assert.Nil(t, val, "nil-карта должна сериализоваться в NULL")
}

func TestJSONMap_Value_NonEmpty(t *testing.T) {
	// Arrange
	m := JSONMap{"correct": 2}

	// Act
	val, err := m.Value()

	// Assert
	require.NoError(t, err, "Value не должен возвращать ошибку")

	bytes, ok := val.([]byte)
	require.True(t, ok, "Value должен возвращать []byte")
	assert.JSONEq(t, `{"correct":2}`, string(bytes))
}
