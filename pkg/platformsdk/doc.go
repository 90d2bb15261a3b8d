/*
Package platformsdk is a client for the kyros tenant platform API.

# Overview

The platform issues two kinds of bearer token. A user access token lists every
tenant the user belongs to. A tenant-scoped token is bound to one tenant and
carries the user's role in it. Tenant resources only accept tenant-scoped
tokens, so a client logs in once and exchanges the user token for each tenant
it wants to work in.

	client := platformsdk.NewClient("http://localhost:8000")

	session, err := client.Login(ctx, "admin@acme.com")
	if err != nil {
		return err
	}

	me, err := session.Me(ctx)

	tenant, err := session.Exchange(ctx, me.Tenants[0].TenantID)
	dashboards, err := tenant.Dashboards(ctx)

The lower-level methods on Client take the token explicitly and are useful
when tokens come from elsewhere:

	resp, err := client.Exchange(ctx, userToken, tenantID)
	meta, err := client.Tenant(ctx, resp.AccessToken, tenantID)

# Errors

Every non-2xx response is returned as *APIError carrying the HTTP status, the
error code, the message and the request ID from the uniform error body:

	_, err := client.Exchange(ctx, userToken, "other-tenant")
	var apiErr *platformsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == platformsdk.CodeTenantAccessDenied {
		// user is not a member
	}

Use IsCode as a shorthand for that check.
*/
package platformsdk
