package model

// Department groups freshers. MemberCount is a cached aggregate of the
// users rows pointing at this department; it is only ever mutated through
// atomic increments, never read-modify-write, so it narrows but does not
// fully eliminate drift under concurrent mutators.
// swagger:model Department
type Department struct {
	UUIDBase
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Manager     string `gorm:"size:100" json:"manager"`
	Location    string `gorm:"size:100" json:"location"`
	MemberCount int    `gorm:"default:0" json:"memberCount"`
}

func (Department) TableName() string {
	return "departments"
}
