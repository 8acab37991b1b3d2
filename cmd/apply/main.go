package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"hireflow/internal/config"
	"hireflow/internal/intake"
	"hireflow/internal/logging"
)

func main() {
	var (
		baseURL = flag.String("url", envOr("HIREFLOW_URL", "http://localhost:8080"), "hireflow base URL")
		timeout = flag.Duration("timeout", 30*time.Second, "request timeout")
		form    intake.Form
		resume  string
		cover   string
	)
	flag.StringVar(&form.JobID, "job", "", "job id to apply for")
	flag.StringVar(&form.Name, "name", "", "full name")
	flag.StringVar(&form.Email, "email", "", "email address")
	flag.StringVar(&form.Phone, "phone", "", "phone number")
	flag.StringVar(&form.Location, "location", "", "current location")
	flag.StringVar(&form.Experience, "experience", "", "years of experience")
	flag.StringVar(&form.Skills, "skills", "", "comma separated skills")
	flag.StringVar(&form.LinkedIn, "linkedin", "", "LinkedIn profile URL")
	flag.StringVar(&form.GitHub, "github", "", "GitHub profile URL")
	flag.StringVar(&form.Portfolio, "portfolio", "", "portfolio URL")
	flag.StringVar(&form.Education, "education", "", "highest education")
	flag.StringVar(&form.CurrentCompany, "company", "", "current company")
	flag.StringVar(&resume, "resume", "", "path to the resume")
	flag.StringVar(&cover, "cover-letter", "", "path to the cover letter")
	flag.Parse()

	if form.JobID == "" {
		log.Fatal("-job is required")
	}

	logger, err := logging.NewFromConfig(config.LoggingConfig{Level: envOr("LOG_LEVEL", "warn"), Format: "text"})
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logger.Close()

	if form.Resume, err = readFile(resume); err != nil {
		log.Fatalf("Failed to read resume: %v", err)
	}
	if form.CoverLetter, err = readFile(cover); err != nil {
		log.Fatalf("Failed to read cover letter: %v", err)
	}

	client, err := intake.NewClient(intake.ClientConfig{BaseURL: *baseURL, Timeout: *timeout}, logger)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*(*timeout))
	defer cancel()

	result, err := client.Submit(ctx, form)
	if errors.Is(err, intake.ErrMissingFields) {
		fmt.Fprintln(os.Stderr, intake.MissingFieldsMessage)
		os.Exit(2)
	}
	var apiErr *intake.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintln(os.Stderr, apiErr.Message)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Submission failed: %v", err)
	}

	fmt.Printf("Application submitted (candidate %s, application %s)\n", result.CandidateID, result.ApplicationID)
}

// readFile loads an attachment, guessing its content type from the
// extension and falling back to sniffing
func readFile(path string) (*intake.File, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &intake.File{Name: filepath.Base(path), ContentType: contentType, Data: data}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
