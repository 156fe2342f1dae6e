package dto

import "github.com/yigit/qnaboard/internal/app/models"

// --- Request DTOs ---

// CreateQuestionRequest is the body of POST /questions. CourseName is optional.
type CreateQuestionRequest struct {
	Title      string `json:"title" validate:"required,notblank,max=200" example:"How does a B-tree split?"`
	Content    string `json:"content" validate:"required,notblank" example:"I don't get the median promotion step"`
	CourseName string `json:"courseName,omitempty" validate:"omitempty,scopename" example:"Data/Structures"`
}

// CreateAnswerRequest is the body of POST /questions/:id/answers
type CreateAnswerRequest struct {
	Content string `json:"content" validate:"required,notblank" example:"The median key moves up into the parent"`
}

// --- Response DTOs ---

// QuestionListResponse is one page of a department or course board.
type QuestionListResponse struct {
	QuestionList []*models.QuestionWithAnswers `json:"questionList"`
	CntQuestions int                           `json:"cntQuestions"`
	Pagination   PaginationInfo                `json:"pagination"`
}

// QuestionDetailResponse is a question together with its answers, oldest first.
type QuestionDetailResponse struct {
	Question *models.QuestionView    `json:"question"`
	Answers  []*models.AnswerDetail `json:"answers"`
}

// MyQuestionsResponse is one page of the caller's own questions.
type MyQuestionsResponse struct {
	QuestionList []*models.QuestionWithCount `json:"questionList"`
	CntQuestions int                         `json:"cntQuestions"`
	Pagination   PaginationInfo              `json:"pagination"`
}

// MyAnswersResponse is one page of the caller's own answers.
type MyAnswersResponse struct {
	AnswerList []*models.AnswerView `json:"answerList"`
	CntAnswers int                  `json:"cntAnswers"`
	Pagination PaginationInfo       `json:"pagination"`
}
