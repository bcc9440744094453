package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// contactLink finds the links to the contact pages on the home page.
var contactLink = regexp.MustCompile(`href="/(\d+)"`)

var (
	baseURL  string
	username string
	password string
	client   *http.Client
)

// Usage example on the command line:
// > GEOCODER_PROVIDER=static go run ./cmd/service
// > go run ./cmd/client -sizes=100,500
func main() {
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "the address of the contact book")
	flag.StringVar(&username, "username", "cmps369", "the user to log in with")
	flag.StringVar(&password, "password", "rcnj", "the password of the user")
	sizesFlag := flag.String("sizes", "100,500,1000", "comma separated numbers of contacts per round")
	flag.Parse()

	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}
	client = &http.Client{
		Jar: jar,
		// Every request is timed on its own, redirects are not followed.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	login()

	form := model.ContactForm{
		FirstName:      "Marcus",
		LastName:       "Antonius",
		Phone:          "+39 999 777 555",
		Email:          "marcus@example.com",
		Street:         "Via Sacra 1",
		City:           "Roma",
		Zip:            "00186",
		Country:        "Italy",
		ContactByEmail: "on",
	}
	fmt.Println()
	fmt.Println("  Elements    CREATE      EDIT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	for _, loops := range parseSizes(*sizesFlag) {
		fmt.Printf("%10d", loops)
		known := contactIDs()
		{
			// create requests
			var duration int64
			for i := 0; i < loops; i++ {
				duration += sendForm("/create", form.Values())
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		ids := newIDs(known)
		callInLoop(ids, func(id int64) int64 {
			return sendForm(fmt.Sprintf("/%d/edit", id), form.Values())
		})
		callInLoop(ids, func(id int64) int64 {
			res, d := sendRequest(http.MethodGet, fmt.Sprintf("/%d", id), nil)
			res.Body.Close()
			return d
		})
		callInLoop(ids, func(id int64) int64 {
			return sendForm(fmt.Sprintf("/%d/delete", id), url.Values{})
		})
		fmt.Println()
	}
}

func parseSizes(s string) []int {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 {
			fmt.Println("invalid size", part)
			panic(err)
		}
		sizes = append(sizes, n)
	}
	return sizes
}

func login() {
	res, _ := sendRequest(http.MethodPost, "/login", url.Values{"username": {username}, "password": {password}})
	res.Body.Close()
	if res.StatusCode != http.StatusFound {
		panic(fmt.Sprintf("login failed with status %d", res.StatusCode))
	}
}

// contactIDs reads the ids of all contacts from the home page.
func contactIDs() map[int64]bool {
	res, _ := sendRequest(http.MethodGet, "/", nil)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	ids := map[int64]bool{}
	for _, match := range contactLink.FindAllStringSubmatch(string(body), -1) {
		id, _ := strconv.ParseInt(match[1], 10, 64)
		ids[id] = true
	}
	return ids
}

// newIDs returns the ids of the contacts that were created since known was read, in random order.
func newIDs(known map[int64]bool) []int64 {
	var ids []int64
	for id := range contactIDs() {
		if !known[id] {
			ids = append(ids, id)
		}
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

func callInLoop(ids []int64, f func(id int64) int64) {
	if len(ids) == 0 {
		fmt.Printf("%10s", "-")
		return
	}
	var duration int64
	for _, id := range ids {
		duration += f(id)
	}
	fmt.Printf("%10d", duration/int64(len(ids)*1000))
}

func sendForm(path string, values url.Values) int64 {
	res, duration := sendRequest(http.MethodPost, path, values)
	res.Body.Close()
	if res.StatusCode != http.StatusFound {
		panic(fmt.Sprintf("POST %s answered with status %d", path, res.StatusCode))
	}
	return duration
}

func sendRequest(method string, path string, values url.Values) (*http.Response, int64) {
	var body io.Reader
	if values != nil {
		body = strings.NewReader(values.Encode())
	}
	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	before := time.Now().UnixNano()
	res, err := client.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return res, after - before
}
