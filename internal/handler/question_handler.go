package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/satprep-api/internal/domain/entity"
	"github.com/yourusername/satprep-api/internal/domain/repository"
	"github.com/yourusername/satprep-api/internal/handler/dto"
	"github.com/yourusername/satprep-api/internal/service"
)

// QuestionHandler обрабатывает админские запросы к вопросам
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ReviewRequest представляет запрос на смену статуса ревью
type ReviewRequest struct {
	QuestionID      string  `json:"questionId" binding:"required"`
	Status          string  `json:"status" binding:"required"`
	Rating          *int    `json:"rating"`
	DiagramAccurate *bool   `json:"diagramAccurate"`
	Comments        *string `json:"comments"`
}

// parseListFilters извлекает фильтры списка вопросов из query-параметров
func parseListFilters(c *gin.Context) (repository.QuestionFilters, int, int) {
	filters := repository.QuestionFilters{
		Status:   c.Query("status"),
		Reviewer: c.Query("reviewer"),
		Category: c.Query("category"),
		Subtopic: c.Query("subtopic"),
	}
	if email, exists := c.Get("email"); exists {
		filters.ReviewerEmail = email.(string)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return filters, page, limit
}

// ListQuestions возвращает пагинированный список вопросов по фильтрам
// GET /api/admin/questions
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	filters, page, limit := parseListFilters(c)

	questions, total, err := h.questionService.ListQuestions(filters, page, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedQuestionsResponse(questions, page, limit, total))
}

// ReviewQuestion применяет админский вердикт ревью
// PATCH /api/admin/questions
func (h *QuestionHandler) ReviewQuestion(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reviewerEmail := c.MustGet("email").(string)
	reviewerID := c.MustGet("user_id").(uint)

	question, err := h.questionService.ReviewQuestion(reviewerEmail, reviewerID, service.ReviewSubmission{
		QuestionID:      req.QuestionID,
		Status:          req.Status,
		Rating:          req.Rating,
		DiagramAccurate: req.DiagramAccurate,
		Comments:        req.Comments,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuestionResponse(question))
}

// ExportQuestions экспортирует вопросы по текущим фильтрам в CSV или Excel
// GET /api/admin/questions/export?format=csv|xlsx
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	filters, _, _ := parseListFilters(c)
	format := c.DefaultQuery("format", "csv")

	// Для экспорта отдаем ВСЕ совпадения без пагинации
	questions, err := h.questionService.ListQuestionsForExport(filters)
	if err != nil {
		handleError(c, err)
		return
	}

	filename := fmt.Sprintf("questions_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, questions, filename)
	default:
		h.exportCSV(c, questions, filename)
	}
}

var exportHeaders = []string{"ID", "Module", "Difficulty", "Category", "Subtopic", "Question", "Correct answer", "Review status", "Rating", "Reviewed by", "Source"}

// exportCSV экспортирует вопросы в CSV с правильным экранированием спецсимволов
func (h *QuestionHandler) exportCSV(c *gin.Context, questions []entity.Question, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range questions {
		writer.Write(exportRowStrings(&questions[i]))
	}
}

// exportXLSX экспортирует вопросы в Excel с использованием StreamWriter
func (h *QuestionHandler) exportXLSX(c *gin.Context, questions []entity.Question, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Questions"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[QuestionHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headerRow := make([]interface{}, len(exportHeaders))
	for i, hd := range exportHeaders {
		headerRow[i] = hd
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		log.Printf("[QuestionHandler] Ошибка записи заголовков: %v", err)
	}

	for i := range questions {
		rowNum := i + 2
		cell := fmt.Sprintf("A%d", rowNum)
		values := exportRowStrings(&questions[i])
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = sanitizeForExcel(v)
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[QuestionHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[QuestionHandler] Ошибка при Flush: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[QuestionHandler] Ошибка записи Excel в response: %v", err)
	}
}

// exportRowStrings собирает строку экспорта для одного вопроса
func exportRowStrings(q *entity.Question) []string {
	status := ""
	if q.ReviewStatus != nil {
		status = *q.ReviewStatus
	}
	rating := ""
	if q.ReviewRating != nil {
		rating = strconv.Itoa(*q.ReviewRating)
	}
	reviewedBy := ""
	if q.ReviewedBy != nil {
		reviewedBy = *q.ReviewedBy
	}
	correct := ""
	if q.IsValidAnswerIndex(q.CorrectAnswer) {
		correct = q.Options[q.CorrectAnswer]
	}

	return []string{
		q.ID,
		q.ModuleType,
		q.Difficulty,
		sanitizeForExcel(q.Category),
		sanitizeForExcel(q.Subtopic),
		sanitizeForExcel(q.Question),
		sanitizeForExcel(correct),
		status,
		rating,
		reviewedBy,
		sanitizeForExcel(q.Source),
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
