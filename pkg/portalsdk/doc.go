/*
Package portalsdk provides a client SDK for the payments REST API that backs the
payment-confirmation portal.

# Overview

The package is organized around two types:

  - SDKClient: unauthenticated operations (login, registration) and Session creation
  - Session: operations that carry the user's bearer token (status, proof submission)

Create an SDKClient and authenticate:

	client := portalsdk.NewSDKClient("https://payments.example.com")

	login, err := client.Login(ctx, "user@example.com", "secret")
	if err != nil {
		var apiErr *portalsdk.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			fmt.Println("server said:", apiErr.Message)
		}
		return err
	}

	session := client.NewSession(login.Token)

Use the Session for authenticated calls:

	status, err := session.GetStatus(ctx)

	err = session.SubmitPayment(ctx, portalsdk.SubmitPaymentRequest{
		ProductID: "premium_v1",
		Amount:    "150",
		FileName:  "transfer.jpg",
		File:      bytes.NewReader(image),
	})

# Tokens

The token returned by Login is opaque. The SDK never inspects it; it is sent as
"Authorization: Bearer <token>" on every Session request.

# Error Handling

Non-2xx responses are returned as *APIError. When the server body has the shape
{"error": "..."} the message is copied verbatim into APIError.Message, otherwise
Message is empty and callers should fall back to their own wording.
*/
package portalsdk
