package models

// Tag is immutable reference data administered out of band; recipes only
// ever reference existing rows.
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:32;uniqueIndex;not null" json:"name"`
	Slug string `gorm:"size:32;uniqueIndex;not null" json:"slug"`
}

// Ingredient is reference data loaded by the seed command.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:128;index;not null" json:"name"`
	MeasurementUnit string `gorm:"size:64;not null" json:"measurement_unit"`
}
