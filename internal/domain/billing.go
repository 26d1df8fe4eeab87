package domain

// BillingAccount is owned by the billing subsystem. The core holds no
// persistent reference to it beyond the provisioning call's result.
type BillingAccount struct {
	AccountID string `json:"accountId"`
	Status    string `json:"status"`
}
