/*
Package gatesdk is a client for the cohort gate service.

# Overview

Students reach a session in one of two ways. A first visit exchanges the
team passphrase for a short-lived temp token and then sets a personal
secret:

	client := gatesdk.NewSDKClient("https://gate.example.com")

	gate, err := client.AuthGate(ctx, "Ada Lovelace", teamPassphrase)
	if err != nil {
		return err
	}
	session, err := client.SetPersonalSecret(ctx, gate.TempToken, gatesdk.SetPersonalSecretRequest{PIN: "1815"})

A returning student skips the passphrase:

	session, err := client.LoginExisting(ctx, "Ada Lovelace", "1815")

Both return a Session holding the session token the server also set as the
sb-access-token cookie. Session.Profile calls GET /session with it.

# Errors

Non-2xx responses come back as *APIError, which carries the HTTP status and
the server's error message. The same type is what the server writes, so
the message is exactly what the handler chose:

	var apiErr *gatesdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		// wrong passphrase, expired temp token, unknown name, ...
	}
*/
package gatesdk
