package models

// SystemSetting is a key/value configuration entry (terms text, intake
// options, theme values). Writes are upserts keyed by Key.
type SystemSetting struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Key      string `gorm:"uniqueIndex;not null" json:"key"`
	Value    string `gorm:"not null" json:"value"`
	Category string `gorm:"not null" json:"category"`
}
