// Command keygen prints a freshly generated base64-encoded 256-bit
// encryption key, suitable for the DUNKEY_AES_KEY environment variable.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
)

func main() {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("generating key: %v", err)
	}
	fmt.Println(base64.StdEncoding.EncodeToString(key))
}
