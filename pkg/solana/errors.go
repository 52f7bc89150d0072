package solana

import (
	"strconv"
)

// CustomError is the numerical error returned by a non-system program.
type CustomError int

func (c CustomError) Error() string {
	return "custom program error: " + strconv.Itoa(int(c))
}
