package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

func main() {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	apiKey := hex.EncodeToString(key)

	fmt.Printf("API Key: %s\n", apiKey)
	fmt.Println("\nExport it for the admin server and its callers:")
	fmt.Printf("  DM_SERVER__API_KEY=%s\n", apiKey)
}
