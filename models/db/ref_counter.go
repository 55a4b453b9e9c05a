package dbmodels

// RefCounter backs the per-day case number sequence. The increment happens
// in a single upsert statement so concurrent creations never share a value.
type RefCounter struct {
	Day    string `gorm:"type:varchar(6);primaryKey"`
	Prefix string `gorm:"type:varchar(8);primaryKey"`
	Value  int64
}
