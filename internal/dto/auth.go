package dto

type RegisterRequestDTO struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty" example:"worker" enums:"buyer,worker"`
}

type RegisterResponseDTO struct {
	Message string `json:"message"`
}

type LoginRequestDTO struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponseDTO struct {
	Message string `json:"message"`
}

type SessionResponseDTO struct {
	Kind     string `json:"kind" example:"awaiting_review"`
	OrderID  int    `json:"order_id,omitempty" example:"12"`
	WorkerID int    `json:"worker_id,omitempty" example:"4"`
}
