/*
Package teamsdk is a Go client for the KHPL team service.

An SDKClient covers the public endpoints (login, invitation lookup,
registration, health) and hands out a Session once a member is signed in:

	client := teamsdk.NewSDKClient("https://khpl.example.com")

	session, err := client.Login(ctx, "+91-9876543210", password)
	if err != nil {
		return err
	}

	invite, err := session.Invite(ctx, teamsdk.InviteRequest{Name: "Asha"})
	// share invite.InviteLink

	member, err := client.Register(ctx, teamsdk.RegisterRequest{
		Token:     invite.InvitationToken,
		Name:      "Asha",
		Phone:     "+91-9000000001",
		Password:  "...",
		AadhaarID: "...",
	})

Failed requests return an *APIError carrying the HTTP status and the error
kind reported by the server; IsKind matches on the kind:

	if teamsdk.IsKind(err, teamsdk.ErrorKindLimitExceeded) {
		// the inviter already has two direct members
	}
*/
package teamsdk
