package entities

type User struct {
	// UID comes from the identity provider and is never generated locally.
	UID              string  `gorm:"primary_key" json:"uid"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	FoodPreference   string  `json:"food_preference"`                // Veg, NonVeg, Both
	ReceiverCategory *string `json:"receiver_category,omitempty"`   // Individual, NGO, Charity, Ashram, Bulk
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Address          string  `json:"address"`
	DeviceToken      string  `json:"-"` // single current push token, overwritten on refresh
	ProfileComplete  bool    `json:"profile_complete"`

	Roles  []*UserRole `gorm:"foreignKey:UserUID" json:"roles,omitempty"`
	Badges []*Badge    `gorm:"foreignKey:UserUID" json:"badges,omitempty"`
	Timestamp
}

type UserRole struct {
	UserUID string `gorm:"primary_key" json:"user_uid"`
	Role    string `gorm:"primary_key" json:"role"` // Donor, Receiver, Volunteer

	User *User `gorm:"foreignKey:UserUID"`
	Timestamp
}
