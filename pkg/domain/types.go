package domain

// Channel identifies the contact channel a verification code is bound to.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

// Valid reports whether the channel is one of the supported values.
func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelPhone
}

// CardType enumerates the supported card products.
type CardType string

const (
	CardTypeDebit   CardType = "debit"
	CardTypeCredit  CardType = "credit"
	CardTypeVirtual CardType = "virtual"
	CardTypePrepaid CardType = "prepaid"
)

func (t CardType) Valid() bool {
	switch t {
	case CardTypeDebit, CardTypeCredit, CardTypeVirtual, CardTypePrepaid:
		return true
	}
	return false
}

// CardStatus enumerates card lifecycle states.
type CardStatus string

const (
	CardStatusActive  CardStatus = "active"
	CardStatusBlocked CardStatus = "blocked"
	CardStatusExpired CardStatus = "expired"
)

func (s CardStatus) Valid() bool {
	switch s {
	case CardStatusActive, CardStatusBlocked, CardStatusExpired:
		return true
	}
	return false
}

// TransactionType enumerates ledger entry types.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionTransfer   TransactionType = "transfer"
	TransactionPayment    TransactionType = "payment"
	TransactionRefund     TransactionType = "refund"
	TransactionFee        TransactionType = "fee"
	TransactionInterest   TransactionType = "interest"
	TransactionBonus      TransactionType = "bonus"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionDeposit, TransactionWithdrawal, TransactionTransfer,
		TransactionPayment, TransactionRefund, TransactionFee,
		TransactionInterest, TransactionBonus:
		return true
	}
	return false
}

// IsCredit reports whether the type increases a bound card's balance.
func (t TransactionType) IsCredit() bool {
	switch t {
	case TransactionDeposit, TransactionRefund, TransactionInterest, TransactionBonus:
		return true
	}
	return false
}

// IsDebit reports whether the type decreases a bound card's balance.
// Transfer maps to neither bucket, so its net balance effect is zero.
func (t TransactionType) IsDebit() bool {
	switch t {
	case TransactionWithdrawal, TransactionPayment, TransactionFee:
		return true
	}
	return false
}

// RequiresFunds reports whether the type must be covered by the card balance
// before the transaction is accepted.
func (t TransactionType) RequiresFunds() bool {
	return t == TransactionWithdrawal || t == TransactionPayment
}

// TransactionStatus enumerates ledger entry states.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusCompleted  TransactionStatus = "completed"
	StatusFailed     TransactionStatus = "failed"
	StatusCancelled  TransactionStatus = "cancelled"
	StatusProcessing TransactionStatus = "processing"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled, StatusProcessing:
		return true
	}
	return false
}

// Deletable reports whether a transaction in this state may be removed.
func (s TransactionStatus) Deletable() bool {
	return s == StatusPending || s == StatusFailed
}

// TransactionCategory enumerates spending categories.
type TransactionCategory string

const (
	CategoryFood          TransactionCategory = "food"
	CategoryTransport     TransactionCategory = "transport"
	CategoryEntertainment TransactionCategory = "entertainment"
	CategoryShopping      TransactionCategory = "shopping"
	CategoryBills         TransactionCategory = "bills"
	CategoryHealthcare    TransactionCategory = "healthcare"
	CategoryEducation     TransactionCategory = "education"
	CategoryOther         TransactionCategory = "other"
)

func (c TransactionCategory) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryEntertainment, CategoryShopping,
		CategoryBills, CategoryHealthcare, CategoryEducation, CategoryOther:
		return true
	}
	return false
}

// KYCDocumentType enumerates accepted identity documents.
type KYCDocumentType string

const (
	DocumentPassport       KYCDocumentType = "passport"
	DocumentDrivingLicense KYCDocumentType = "driving_license"
	DocumentNationalID     KYCDocumentType = "national_id_card"
)

func (t KYCDocumentType) Valid() bool {
	switch t {
	case DocumentPassport, DocumentDrivingLicense, DocumentNationalID:
		return true
	}
	return false
}

// DefaultCurrency is applied when a request omits the currency code.
const DefaultCurrency = "USD"
