package seq

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// NextRefNo issues the next case number <PREFIX><YYMMDD><seq>. The counter
// increment is a single upsert so concurrent creations cannot draw the same
// value.
func NextRefNo(tx *gorm.DB, prefix string, day time.Time) (string, error) {
	stamp := day.Format("060102")
	var value int64
	err := tx.Raw(`INSERT INTO ref_counters (day, prefix, value) VALUES (?, ?, 1)
		ON CONFLICT (day, prefix) DO UPDATE SET value = ref_counters.value + 1
		RETURNING value`, stamp, prefix).
		Scan(&value).
		Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%03d", prefix, stamp, value), nil
}
