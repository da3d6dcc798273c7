package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kapal-registry/internal/dependencies/mocks"
	"github.com/mcoot/kapal-registry/internal/model"
)

type CodecSuite struct {
	suite.Suite
	clock *mocks.MockClock
	codec *JWTCodec
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecSuite))
}

func (s *CodecSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	codec, err := NewJWTCodec(Config{Secret: []byte("test-secret"), TTL: time.Hour}, s.clock)
	s.Require().NoError(err)
	s.codec = codec
}

func (s *CodecSuite) TestNewRequiresSecret() {
	_, err := NewJWTCodec(Config{}, s.clock)
	s.Error(err)
}

func (s *CodecSuite) TestSignAndVerifyRoundTrip() {
	tok, err := s.codec.Sign(Claims{UserID: 42, Role: model.RoleAdmin})
	s.Require().NoError(err)

	claims, err := s.codec.Verify(tok)
	s.Require().NoError(err)
	s.Equal(model.UserID(42), claims.UserID)
	s.Equal(model.RoleAdmin, claims.Role)
}

func (s *CodecSuite) TestTokenUsesWireClaimNames() {
	tok, err := s.codec.Sign(Claims{UserID: 7, Role: "user"})
	s.Require().NoError(err)

	parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	s.Require().NoError(err)
	claims := parsed.Claims.(jwt.MapClaims)
	s.Equal(float64(7), claims["id_user"])
	s.Equal("user", claims["role"])
	s.Contains(claims, "iat")
	s.Contains(claims, "exp")
}

func (s *CodecSuite) TestVerifyFailsWhenExpired() {
	tok, err := s.codec.Sign(Claims{UserID: 1, Role: model.RoleAdmin})
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Hour)

	_, err = s.codec.Verify(tok)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *CodecSuite) TestZeroTTLNeverExpires() {
	codec, err := NewJWTCodec(Config{Secret: []byte("test-secret")}, s.clock)
	s.Require().NoError(err)

	tok, err := codec.Sign(Claims{UserID: 1, Role: model.RoleAdmin})
	s.Require().NoError(err)

	s.clock.Advance(24 * 365 * time.Hour)

	_, err = codec.Verify(tok)
	s.NoError(err)
}

func (s *CodecSuite) TestVerifyFailsWithOtherSecret() {
	other, err := NewJWTCodec(Config{Secret: []byte("other-secret"), TTL: time.Hour}, s.clock)
	s.Require().NoError(err)
	tok, err := other.Sign(Claims{UserID: 1, Role: model.RoleAdmin})
	s.Require().NoError(err)

	_, err = s.codec.Verify(tok)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *CodecSuite) TestVerifyFailsWhenPayloadTampered() {
	userTok, err := s.codec.Sign(Claims{UserID: 1, Role: "user"})
	s.Require().NoError(err)
	adminTok, err := s.codec.Sign(Claims{UserID: 1, Role: model.RoleAdmin})
	s.Require().NoError(err)

	// Splice the admin payload onto the user token's signature
	userParts := strings.Split(userTok, ".")
	adminParts := strings.Split(adminTok, ".")
	forged := userParts[0] + "." + adminParts[1] + "." + userParts[2]

	_, err = s.codec.Verify(forged)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *CodecSuite) TestVerifyRejectsNoneAlgorithm() {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id_user": 1, "role": "admin"})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	s.Require().NoError(err)

	_, err = s.codec.Verify(signed)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *CodecSuite) TestVerifyFailsWithGarbage() {
	_, err := s.codec.Verify("not-a-token")
	s.ErrorIs(err, ErrInvalidToken)
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
		wantErr  bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", expected: "abc"},
		{name: "empty", header: "", wantErr: true},
		{name: "scheme only", header: "Bearer", wantErr: true},
		{name: "scheme with blank token", header: "Bearer   ", wantErr: true},
		{name: "basic auth", header: "Basic dXNlcjpwdw==", wantErr: true},
		{name: "bare token", header: "abc.def.ghi", wantErr: true},
		{name: "extra segment", header: "Bearer abc def", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearer(tt.header)
			if tt.wantErr {
				if err != ErrMissingToken {
					t.Errorf("ParseBearer(%q) error = %v, want ErrMissingToken", tt.header, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBearer(%q) unexpected error: %v", tt.header, err)
			}
			if got != tt.expected {
				t.Errorf("ParseBearer(%q) = %q, want %q", tt.header, got, tt.expected)
			}
		})
	}
}
