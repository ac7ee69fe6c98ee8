// Command collaborator-stub serves the scoring and drafting endpoints locally
// so the dashboard can be exercised without the real services.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found, using process environment")
	}

	port := os.Getenv("STUB_PORT")
	if port == "" {
		port = "8000"
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Post("/providescore", provideScore)
	r.Post("/draftemail", draftEmail)

	log.Printf("🧪 collaborator stub on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

func decodeLead(w http.ResponseWriter, r *http.Request) (entity.Lead, bool) {
	var lead entity.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		http.Error(w, "invalid lead", http.StatusBadRequest)
		return lead, false
	}
	return lead, true
}

func provideScore(w http.ResponseWriter, r *http.Request) {
	lead, ok := decodeLead(w, r)
	if !ok {
		return
	}
	score, reasons := heuristicScore(lead)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"score": score, "reason": reasons})
}

func heuristicScore(lead entity.Lead) (int, []string) {
	score := 35
	var reasons []string

	if lead.Size != nil && *lead.Size >= 500 {
		score += 15
		reasons = append(reasons, fmt.Sprintf("%d employees", *lead.Size))
	}
	if lead.Revenue != nil && *lead.Revenue >= 100 {
		score += 15
		reasons = append(reasons, fmt.Sprintf("$%.0fM revenue", *lead.Revenue))
	}
	if slices.Contains(lead.TechStack, "Postgres") {
		score += 10
		reasons = append(reasons, "Runs Postgres")
	}
	title := strings.ToLower(lead.Title)
	for _, senior := range []string{"vp", "cto", "head", "director"} {
		if strings.Contains(title, senior) {
			score += 15
			reasons = append(reasons, "Senior buyer: "+lead.Title)
			break
		}
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "No strong signals")
	}
	return score, reasons
}

func draftEmail(w http.ResponseWriter, r *http.Request) {
	lead, ok := decodeLead(w, r)
	if !ok {
		return
	}

	first, _, _ := strings.Cut(lead.Name, " ")
	draft := entity.EmailDraft{
		Subject: fmt.Sprintf("Idea for %s", lead.Company),
		Body: fmt.Sprintf("Hi %s,\n\nTeams in %s like %s use us to shorten their pipeline reviews.",
			first, strings.ToLower(lead.Industry), lead.Company),
		CTA: "Open to a 15-minute call this week?",
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(draft)
}
