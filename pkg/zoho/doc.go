// Package zoho implements the auth.Provider contract against Zoho's accounts
// and People APIs: consent URL construction, authorization-code exchange,
// refresh-token grant, user-info lookup, and employee form retrieval.
//
// Token traffic goes through golang.org/x/oauth2 with a custom endpoint;
// credentials travel as request parameters, matching what Zoho's token
// endpoint accepts. Profile endpoints authenticate with the provider's own
// "Zoho-oauthtoken" header scheme instead of Bearer.
package zoho
