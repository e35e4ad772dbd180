package domain

const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusOverdue   = "overdue"
	PaymentStatusCancelled = "cancelled"
)

const (
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodPix        = "pix"
	PaymentMethodBoleto     = "boleto"
)

const (
	CredentialStatusActive   = "active"
	CredentialStatusInactive = "inactive"
)

const (
	NotificationTypePayment  = "payment"
	NotificationTypeMaterial = "material"
	NotificationTypeCourse   = "course"
	NotificationTypeSystem   = "system"
)

const (
	MaterialTypeEbook    = "ebook"
	MaterialTypePDF      = "pdf"
	MaterialTypeMagazine = "magazine"
)
