// Package signing produces the epi-hmac authorization header expected by the
// content graph gateway.
//
// The header has the form
//
//	epi-hmac {appKey}:{timestamp}:{nonce}:{signature}
//
// where signature is base64(HMAC-SHA256(key, appKey + METHOD + pathWithQuery +
// timestamp + nonce + base64(MD5(body)))) and key is the base64-decoded secret.
// MD5 here is a content fingerprint the gateway recomputes; it must not change.
package signing
