package account

import "github.com/labstack/echo/v4"

const contextKey = "account"

// ToContext attaches the resolved (sanitized) account to the request.
func ToContext(c echo.Context, account *Account) {
	c.Set(contextKey, account)
}

// FromContext returns the account set by the auth gate, if any.
func FromContext(c echo.Context) (*Account, bool) {
	account, ok := c.Get(contextKey).(*Account)
	if !ok || account == nil {
		return nil, false
	}
	return account, true
}
