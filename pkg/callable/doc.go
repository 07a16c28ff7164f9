// Package callable implements the request/response envelope of HTTPS
// callable functions.
//
// A request carries its argument under "data":
//
//	POST /createCheckoutSession
//	{"data": {"priceId": "price_123"}}
//
// Success is reported as {"result": ...} with status 200. Failures are
// reported as {"error": {"status": "INVALID_ARGUMENT", "message": "..."}}
// with a matching HTTP status. Functions signal failures by returning an
// [*Error]; any other error is reported as internal with a generic message.
package callable
