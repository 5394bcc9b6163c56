package models

// UserQuery carries the three shell inputs. Dates are YYYY-MM-DD.
type UserQuery struct {
	Ticker string `query:"ticker" form:"ticker" json:"ticker" validate:"required,max=32"`
	Start  string `query:"start" form:"start" json:"start" validate:"required,date"`
	End    string `query:"end" form:"end" json:"end" validate:"required,date"`
}

// FillAbsent copies from def every field whose key the caller did not supply.
// A supplied field is kept even when blank so validation can reject it.
func (q UserQuery) FillAbsent(def UserQuery, supplied func(key string) bool) UserQuery {
	if !supplied("ticker") {
		q.Ticker = def.Ticker
	}
	if !supplied("start") {
		q.Start = def.Start
	}
	if !supplied("end") {
		q.End = def.End
	}
	return q
}
