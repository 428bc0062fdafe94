package logpuzzle

// ProgressBar shows the byte progress of the image currently downloading.
// It is reused for every image of a Download.
type ProgressBar interface {
	Start()
	Finish()
	SetTotal(int64)
	SetCurrent(int64)
}

type nopProgressBar struct{}

func (nopProgressBar) Start()           {}
func (nopProgressBar) Finish()          {}
func (nopProgressBar) SetTotal(int64)   {}
func (nopProgressBar) SetCurrent(int64) {}
