package exitcode

const (
	Success            = 0
	UsageError         = 1
	InputShapeError    = 2
	DBConnError        = 3
	RunError           = 4
	LoadError          = 5
	RecordsQuarantined = 6
)
