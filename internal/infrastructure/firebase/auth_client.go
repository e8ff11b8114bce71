package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

const phoneClaim = "phone_number"

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// VerifyToken checks an ID token and returns the user's uid and the phone
// number confirmed during OTP sign-in.
func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", "", err
	}

	return result.UID, PhoneFromClaims(result.Claims), nil
}

func PhoneFromClaims(claims map[string]interface{}) string {
	phone, _ := claims[phoneClaim].(string)
	return phone
}
