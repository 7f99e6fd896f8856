package dto

// RegisterForm is posted by the registration page.
type RegisterForm struct {
	FullName     string `form:"full_name"`
	MobileNumber string `form:"mobile_number"`
}

// ReportForm is posted by the report page. The photo arrives as the
// multipart "file" part.
type ReportForm struct {
	MobileNumber string `form:"mobile_number"`
	CategoryID   string `form:"category_id"`
	Address      string `form:"address"`
	Landmark     string `form:"landmark"`
	Description  string `form:"description"`
	Latitude     string `form:"latitude"`
	Longitude    string `form:"longitude"`
	Override     string `form:"override"`
}

// AdminLoginForm is posted by the admin login page.
type AdminLoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// ResolveRequest carries an optional note when resolving a complaint.
type ResolveRequest struct {
	Note string `json:"note" form:"note"`
}
