package model

// UserProfile is the current user's identity and bio record.
type UserProfile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
	Bio        string `json:"bio"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	JoinedDate string `json:"joined_date"`
}

// ProfileUpdate carries the fields to merge into the current profile. Nil
// fields are left unchanged; id, username and joined date cannot be changed.
type ProfileUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
}

// Apply merges u into p.
func (u ProfileUpdate) Apply(p *UserProfile) {
	if u.FullName != nil {
		p.FullName = *u.FullName
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Avatar != nil {
		p.Avatar = *u.Avatar
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
}

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// NavigateResponse tells the view layer where to go after a form submit.
type NavigateResponse struct {
	Redirect string `json:"redirect"`
}

// ValidationErrorResponse reports per-field validation messages.
type ValidationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

// Friend is an entry of the suggested friends roster.
type Friend struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// FriendSearchResponse is the result of a friend search.
type FriendSearchResponse struct {
	Friends []Friend `json:"friends"`
	Notice  string   `json:"notice,omitempty"`
}

// AddFriendRequest adds a suggested friend as a new conversation.
type AddFriendRequest struct {
	Name string `json:"name"`
}
