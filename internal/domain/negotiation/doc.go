// Package negotiation implements the chat-style exchange between the
// regulator and a simulated site owner. An exchange can end with the
// owner agreeing to remove the disputed content, which transitions the
// site to the content-removed status and invalidates its cached page.
package negotiation
