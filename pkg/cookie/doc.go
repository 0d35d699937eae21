// Package cookie provides tamper-proof HTTP cookies.
//
// A Manager signs values with HMAC-SHA256 or encrypts them with AES-GCM.
// Multiple secrets are supported so keys can be rotated: the first secret
// signs and encrypts, all of them verify and decrypt, so cookies issued
// under an old key stay valid during the transition.
package cookie
