// Package models - Token, SessionClaims thuộc domain auth.
package models

import "github.com/dgrijalva/jwt-go"

// SessionClaims chứa data được mã hóa trong JWT token.
// SessionID phân biệt các phiên đăng nhập của cùng một user. Lock protocol
// dùng nó để biết lock thuộc phiên nào.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.StandardClaims
}

// Token token theo phiên đăng nhập (mỗi phiên một token).
type Token struct {
	SessionID string `json:"sessionId" bson:"sessionId,omitempty"`
	Hwid      string `json:"hwid" bson:"hwid,omitempty"`
	JwtToken  string `json:"jwtToken,omitempty" bson:"jwtToken,omitempty"`
}
