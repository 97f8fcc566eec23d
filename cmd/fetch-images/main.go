// Command fetch-images downloads the menu image assets referenced by
// the seed data into static/images. Files that already exist are
// skipped.
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const outputDir = "static/images"

var imageURLs = map[string]string{
	"cappuccino.jpg":        "https://images.unsplash.com/photo-1572442388796-11668a67e53d?w=800&h=800&fit=crop",
	"latte.jpg":             "https://images.unsplash.com/photo-1561882468-9110e03e0f78?w=800&h=800&fit=crop",
	"mocha.jpg":             "https://images.unsplash.com/photo-1578314675249-a6910f80cc4e?w=800&h=800&fit=crop",
	"caramel-macchiato.jpg": "https://images.unsplash.com/photo-1599398054066-846f28917f38?w=800&h=800&fit=crop",
	"flat-white.jpg":        "https://images.unsplash.com/photo-1577968897966-3d4325b36b61?w=800&h=800&fit=crop",
	"pour-over.jpg":         "https://images.unsplash.com/photo-1495474472287-4d71bcdd2085?w=800&h=800&fit=crop",
	"americano.jpg":         "https://images.unsplash.com/photo-1521302080334-4bebac2763a6?w=800&h=800&fit=crop",
	"cold-brew.jpg":         "https://images.unsplash.com/photo-1517701604599-bb29b565090c?w=800&h=800&fit=crop",
	"iced-latte.jpg":        "https://images.unsplash.com/photo-1461023058943-07fcbe16d735?w=800&h=800&fit=crop",
	"matcha-latte.jpg":      "https://images.unsplash.com/photo-1536256263959-770b48d82b0a?w=800&h=800&fit=crop",
	"taro-latte.jpg":        "https://images.unsplash.com/photo-1571328003758-4a3921661729?w=800&h=800&fit=crop",
	"red-velvet-latte.jpg":  "https://images.unsplash.com/photo-1594631252845-29fc4cc8cde9?w=800&h=800&fit=crop",
}

func main() {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Fatalf("mkdir %s: %v", outputDir, err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	var fetched, skipped, failed int
	for name, url := range imageURLs {
		path := filepath.Join(outputDir, name)
		if _, err := os.Stat(path); err == nil {
			skipped++
			continue
		}
		if err := download(client, url, path); err != nil {
			log.Printf("download %s: %v", name, err)
			failed++
			continue
		}
		log.Printf("downloaded %s", name)
		fetched++
	}
	log.Printf("done: %d downloaded, %d skipped, %d failed", fetched, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func download(client *http.Client, url, path string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
