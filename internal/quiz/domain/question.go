package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Question is one row in the question bank. ResponseD and Remark are
// optional; an empty ResponseD means the question has three choices.
type Question struct {
	ID        string    `json:"-"`
	Question  string    `json:"question"`
	Subject   string    `json:"subject"`
	Use       string    `json:"use"`
	Correct   string    `json:"correct"`
	ResponseA string    `json:"responseA"`
	ResponseB string    `json:"responseB"`
	ResponseC string    `json:"responseC"`
	ResponseD string    `json:"responseD,omitempty"`
	Remark    string    `json:"remark,omitempty"`
	CreatedAt time.Time `json:"-"`
}

// QuizItem is a single questionnaire entry as presented to the candidate.
// The correct answer is deliberately absent.
type QuizItem struct {
	Question string `json:"question"`
	A        string `json:"A"`
	B        string `json:"B"`
	C        string `json:"C"`
	D        string `json:"D,omitempty"`
}

// Questionnaire is an ordered sequence of quiz items. It marshals as an
// object keyed "Question 1", "Question 2", ... preserving sample order,
// which a plain map cannot do.
type Questionnaire []QuizItem

func (q Questionnaire) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, item := range q {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(fmt.Sprintf("Question %d", i+1))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}

// Item converts the stored question into its questionnaire form.
func (q Question) Item() QuizItem {
	return QuizItem{
		Question: q.Question,
		A:        q.ResponseA,
		B:        q.ResponseB,
		C:        q.ResponseC,
		D:        q.ResponseD,
	}
}
