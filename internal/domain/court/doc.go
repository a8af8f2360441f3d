// Package court runs appeal hearings for blocks that were escalated
// to judicial review. A hearing asks the adjudicator for a verdict on
// the archived site and negotiation transcript; closing the hearing
// applies the verdict to the site's status.
package court
