package render_test

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bmatsuo/rlisp/lisp"
	"github.com/bmatsuo/rlisp/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type Product struct {
	ProductID    int     `yaml:"productID"`
	ProductName  string  `yaml:"productName"`
	Category     string  `yaml:"category"`
	UnitPrice    float64 `yaml:"unitPrice"`
	UnitsInStock int     `yaml:"unitsInStock"`
}

type Order struct {
	OrderID   int       `yaml:"orderID"`
	OrderDate time.Time `yaml:"orderDate"`
	Total     float64   `yaml:"total"`
}

type Customer struct {
	CustomerID  string  `yaml:"customerID"`
	CompanyName string  `yaml:"companyName"`
	Region      string  `yaml:"region"`
	Orders      []Order `yaml:"orders"`
}

type northwind struct {
	Products  []*Product  `yaml:"products"`
	Customers []*Customer `yaml:"customers"`
}

func loadNorthwind(t testing.TB) *northwind {
	b, err := os.ReadFile("testdata/northwind.yaml")
	require.NoError(t, err)
	var nw northwind
	require.NoError(t, yaml.Unmarshal(b, &nw))
	require.NotEmpty(t, nw.Products)
	require.NotEmpty(t, nw.Customers)
	return &nw
}

func northwindEnv(t testing.TB, config ...lisp.Config) *lisp.LEnv {
	nw := loadNorthwind(t)
	env, err := render.NewEnv(config...)
	require.NoError(t, err)
	require.NoError(t, env.Set("products-list", nw.Products))
	require.NoError(t, env.Set("customers-list", nw.Customers))
	return env
}

func TestRender_linq(t *testing.T) {
	tests := []struct {
		name    string
		program string
		output  string
		// prefix is set when the program prints more than output.
		prefix bool
	}{
		{"Linq01", `
(defn linq01 ()
    (setq numbers '(5 4 1 3 9 8 6 7 2 0))
    (let ((low-numbers (filter (fn (%) (< % 5)) numbers)))
        (println "Numbers < 5:")
        (dolist (n low-numbers)
            (println n))))
(linq01)`, `Numbers < 5:
4
1
3
2
0
`, false},
		{"Linq02", `
(defn linq02 ()
    (let ( (sold-out-products
               (filter (fn (p) (= 0 (.UnitsInStock p))) products-list)) )
        (println "Sold out products:")
        (doseq (p sold-out-products)
            (println (.ProductName p) " is sold out") )
    ))
(linq02)`, `Sold out products:
Chef Anton's Gumbo Mix is sold out
Alice Mutton is sold out
Thüringer Rostbratwurst is sold out
Gorgonzola Telino is sold out
Perth Pasties is sold out
`, false},
		{"Linq03", `
(defn linq03 ()
  (let ( (expensive-in-stock-products
            (filter (fn (p)
                (and
                     (> (.UnitsInStock p) 0)
                     (> (.UnitPrice p) 3)) )
             products-list)
         ))
    (println "In-stock products that cost more than 3.00:")
    (doseq (p expensive-in-stock-products)
      (println (.ProductName p) " is in stock and costs more than 3.00"))))
(linq03)`, `In-stock products that cost more than 3.00:
Chai is in stock and costs more than 3.00
Chang is in stock and costs more than 3.00
Aniseed Syrup is in stock and costs more than 3.00
Chef Anton's Cajun Seasoning is in stock and costs more than 3.00
Grandma's Boysenberry Spread is in stock and costs more than 3.00
`, true},
		{"Linq04", `
(defn linq04 ()
    (let ( (wa-customers (filter (fn (x) (= (.Region x) "WA")) customers-list)) )
        (println "Customers from Washington and their orders:")
        (doseq (c wa-customers)
            (println "Customer " (.CustomerID c) ": " (.CompanyName c) ": ")
            (doseq (o (.Orders c))
                (println "    Order " (.OrderID o) ": " (format-time (.OrderDate o) "1/2/2006 3:04:05 PM")) )
        )))
(linq04)`, "Customers from Washington and their orders:\n" +
			"Customer LAZYK: Lazy K Kountry Store: \n" +
			"    Order 10482: 3/21/1997 12:00:00 AM\n" +
			"    Order 10545: 5/22/1997 12:00:00 AM\n" +
			"Customer TRAIH: Trail's Head Gourmet Provisioners: \n" +
			"    Order 10574: 6/19/1997 12:00:00 AM\n" +
			"    Order 10577: 6/23/1997 12:00:00 AM\n" +
			"    Order 10822: 1/8/1998 12:00:00 AM\n", false},
		{"Linq05", `
(defn linq05 ()
(let ( (digits '("zero" "one" "two" "three" "four" "five" "six" "seven" "eight" "nine"))
       (i 0) (short-digits) )
    (setq short-digits (filter (fn (digit) (if (> (1- (incf i)) (/count digit)) digit)) digits))
    (println "Short digits:")
    (doseq (d short-digits)
      (println "The word " d " is shorter than its value"))))
(linq05)`, `Short digits:
The word five is shorter than its value
The word six is shorter than its value
The word seven is shorter than its value
The word eight is shorter than its value
The word nine is shorter than its value
`, false},
		{"Linq06", `
(defn linq06 ()
  (let ( (numbers '(5 4 1 3 9 8 6 7 2 0)) (nums-plus-one) )
    (setq nums-plus-one (map inc numbers))
    (println "Numbers + 1:")
        (doseq (n nums-plus-one) (println n))))
(linq06)`, "Numbers + 1:\n6\n5\n2\n4\n10\n9\n7\n8\n3\n1\n", false},
		{"Linq07", `
(defn linq07 ()
  (let ( (product-names (map (fn (x) (.ProductName x)) products-list)) )
    (println "Product Names:")
    (doseq (x product-names) (println x))))
(linq07)`, `Product Names:
Chai
Chang
Aniseed Syrup
Chef Anton's Cajun Seasoning
Chef Anton's Gumbo Mix
`, true},
		{"Linq08", `
(defn linq08 ()
  (let ( (numbers '(5 4 1 3 9 8 6 7 2 0))
         (strings '("zero" "one" "two" "three" "four" "five" "six" "seven" "eight" "nine"))
         (text-nums) )
      (setq text-nums (map (fn (n) (nth strings n)) numbers))
      (println "Number strings:")
      (doseq (n text-nums) (println n))
  ))
(linq08)`, "Number strings:\nfive\nfour\none\nthree\nnine\neight\nsix\nseven\ntwo\nzero\n", false},
		{"Linq09", `
(defn linq09 ()
  (let ( (words '("aPPLE" "BlUeBeRrY" "cHeRry"))
         (upper-lower-words) )
    (setq upper-lower-words
        (map (fn (w) ` + "`" + `( (lower ,(lower-case w)) (upper ,(upper-case w)) )) words) )
    (doseq (ul upper-lower-words)
        (println "Uppercase: " (assoc-value 'upper ul) ", Lowercase: " (assoc-value 'lower ul)))
  ))
(linq09)`, `Uppercase: APPLE, Lowercase: apple
Uppercase: BLUEBERRY, Lowercase: blueberry
Uppercase: CHERRY, Lowercase: cherry
`, false},
		{"Linq10", `
(defn linq10 ()
  (let ( (numbers '(5 4 1 3 9 8 6 7 2 0))
         (strings '("zero" "one" "two" "three" "four" "five" "six" "seven" "eight" "nine"))
         (digit-odd-evens) )
      (setq digit-odd-evens
          (map (fn(n) ` + "`" + `( (digit ,(nth strings n)) (even ,(even? n)) ) ) numbers))
      (doseq (d digit-odd-evens)
          (println "The digit " (assoc-value 'digit d) " is " (if (assoc-value 'even d) "even" "odd")))
  ))
(linq10)`, `The digit five is odd
The digit four is even
The digit one is odd
The digit three is odd
The digit nine is odd
The digit eight is even
The digit six is even
The digit seven is odd
The digit two is even
The digit zero is even
`, false},
		{"Linq11", `
(defn linq11 ()
  (let ( (product-infos
            (map (fn (x) {
                    :ProductName (.ProductName x)
                    :Category    (.Category x)
                    :Price       (.UnitPrice x)
                 })
            products-list)) )
    (println "Product Info:")
    (doseq (p product-infos)
        (println (:ProductName p) " is in the category " (:Category p) " and costs " (:Price p)) )
  ))
(linq11)`, linq11Output, true},
		{"Linq11_expanded", `
(defn linq11 ()
  (let ( (product-infos
            (map (fn (x) (new-map
                    (list "ProductName" (.ProductName x))
                    (list "Category"    (.Category x))
                    (list "Price"       (.UnitPrice x))
                ))
            products-list)) )
    (println "Product Info:")
    (doseq (p product-infos)
      (println (:ProductName p) " is in the category " (:Category p) " and costs " (:Price p)))
  ))
(linq11)`, linq11Output, true},
		{"Linq11_classic_lisp", `
(defn linq11 ()
  (let ( (product-infos
            (map (fn (p) ` + "`" + `(
                    (ProductName ,(.ProductName p))
                    (Category    ,(.Category p))
                    (Price       ,(.UnitPrice p))
                ))
            products-list)) )
    (println "Product Info:")
    (doseq (p product-infos)
      (println (assoc-value 'ProductName p) " is in the category " (assoc-value 'Category p)
               " and costs " (assoc-value 'Price p)))
  ))
(linq11)`, linq11Output, true},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			env := northwindEnv(t)
			out, err := render.Render(test.program, env)
			require.NoError(t, err)
			if test.prefix {
				assert.True(t, strings.HasPrefix(out, test.output), "unexpected output:\n%s", out)
			} else {
				assert.Equal(t, test.output, out)
			}
		})
	}
}

const linq11Output = `Product Info:
Chai is in the category Beverages and costs 18
Chang is in the category Beverages and costs 19
Aniseed Syrup is in the category Condiments and costs 10
Chef Anton's Cajun Seasoning is in the category Condiments and costs 22
Chef Anton's Gumbo Mix is in the category Condiments and costs 21.35
`

func TestRender_error(t *testing.T) {
	env := northwindEnv(t)
	out, err := render.Render(`(println "before")
(println (no-such-function 1))
(println "after")`, env)
	assert.Equal(t, "before\n", out)
	require.Error(t, err)
	assert.Equal(t, lisp.CondUnboundSymbol, lisp.ConditionOf(err))

	lerr, ok := err.(*lisp.ErrorVal)
	require.True(t, ok, "%T", err)
	if assert.NotNil(t, lerr.Location()) {
		assert.Equal(t, render.DefaultSourceName, lerr.Location().File)
		assert.Equal(t, 2, lerr.Location().Line)
	}
	assert.Contains(t, err.Error(), "no-such-function")

	// the failed render leaves the environment usable
	out, err = render.Render(`(println (/count products-list))`, env)
	require.NoError(t, err)
	assert.Equal(t, "34\n", out)
}

func TestRender_hostAccess(t *testing.T) {
	env := northwindEnv(t)
	out, err := render.Render(`(println (.ProductName (car products-list)))
(.Missing (car products-list))`, env)
	assert.Equal(t, "Chai\n", out)
	assert.Equal(t, lisp.CondHostAccess, lisp.ConditionOf(err))
}

func TestRender_syntaxError(t *testing.T) {
	env := northwindEnv(t)
	out, err := render.Render(`(println "never printed")
(println "unterminated`, env)
	assert.Equal(t, "", out)
	assert.Equal(t, lisp.CondSyntaxError, lisp.ConditionOf(err))
}

func TestRender_restoresStdout(t *testing.T) {
	var stdout bytes.Buffer
	env, err := render.NewEnv(lisp.WithStdout(&stdout))
	require.NoError(t, err)

	out, err := render.Render(`(print "a" 1)`, env)
	require.NoError(t, err)
	assert.Equal(t, "a1", out)
	assert.Same(t, &stdout, env.Runtime.Stdout)

	out, err = render.Render(`(print "b") (error 'oops "failed")`, env)
	assert.Equal(t, "b", out)
	assert.Equal(t, "oops", lisp.ConditionOf(err))
	assert.Same(t, &stdout, env.Runtime.Stdout)

	lerr := env.LoadString("direct", `(print "c")`)
	require.NotEqual(t, lisp.LError, lerr.Type, "%v", lerr)
	assert.Equal(t, "c", stdout.String())
}

func TestRender_return(t *testing.T) {
	env := northwindEnv(t)
	out, err := render.Render(`(println 1) (return 2) (println 3)`, env)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestEvaluate(t *testing.T) {
	env := northwindEnv(t)
	tests := []struct {
		expr   string
		result string
	}{
		{`(+ 1 2)`, "3"},
		{`(filter (fn (%) (< % 5)) '(5 4 1 3 9 8 6 7 2 0))`, "(4 1 3 2 0)"},
		{`(map inc '(5 4 1))`, "(6 5 2)"},
		{`(defn sq (x) (* x x)) (sq 12)`, "144"},
		{`(progn (return "early") "late")`, `"early"`},
		{`(/count (filter (fn (p) (= 0 (.UnitsInStock p))) products-list))`, "5"},
		{`(.CompanyName (nth customers-list 2))`, `"Lazy K Kountry Store"`},
		{`(format-number (.UnitPrice (nth products-list 4)) 2)`, `"21.35"`},
		{``, "()"},
	}
	for i, test := range tests {
		v, err := render.Evaluate(test.expr, env)
		if assert.NoError(t, err, "test %d: %s", i, test.expr) {
			assert.Equal(t, test.result, v.String(), "test %d: %s", i, test.expr)
		}
	}

	// definitions persist in a shared root
	v, err := render.Evaluate(`(sq 3)`, env)
	require.NoError(t, err)
	assert.Equal(t, "9", v.String())

	_, err = render.Evaluate(`(car 1)`, env)
	assert.Equal(t, lisp.CondTypeError, lisp.ConditionOf(err))
}

func TestSet(t *testing.T) {
	env, err := render.NewEnv()
	require.NoError(t, err)
	require.NoError(t, env.Set("greeting", "hello"))
	require.NoError(t, env.Set("counts", map[string]int{"b": 2, "a": 1}))
	require.NoError(t, env.Set("when", time.Date(1997, 3, 21, 0, 0, 0, 0, time.UTC)))
	out, err := render.Render(`
(println greeting ", " (get counts "a") " " (:b counts))
(println (keys counts))
(println (format-time when "2 January 2006"))`, env)
	require.NoError(t, err)
	assert.Equal(t, "hello, 1 2\n(\"a\" \"b\")\n21 March 1997\n", out)

	// host bindings may be replaced between renders
	require.NoError(t, env.Set("greeting", "goodbye"))
	out, err = render.Render(`(print greeting)`, env)
	require.NoError(t, err)
	assert.Equal(t, "goodbye", out)
}

func TestRender_concurrent(t *testing.T) {
	const n = 8
	t.Run("independent", func(t *testing.T) {
		var wg sync.WaitGroup
		outs := make([]string, n)
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				env, err := render.NewEnv()
				if err != nil {
					errs[i] = err
					return
				}
				outs[i], errs[i] = render.Render(fmt.Sprintf(`(dotimes (j 50) (print %d))`, i), env)
			}(i)
		}
		wg.Wait()
		for i := 0; i < n; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, strings.Repeat(fmt.Sprint(i), 50), outs[i])
		}
	})
	t.Run("shared", func(t *testing.T) {
		env := northwindEnv(t)
		var wg sync.WaitGroup
		outs := make([]string, n)
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				prog := fmt.Sprintf(`(doseq (p products-list) (print %d))`, i)
				outs[i], errs[i] = render.Render(prog, env)
			}(i)
		}
		wg.Wait()
		for i := 0; i < n; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, strings.Repeat(fmt.Sprint(i), 34), outs[i])
		}
	})
}

func TestNewEnv_maxStackHeight(t *testing.T) {
	env, err := render.NewEnv(lisp.WithMaximumStackHeight(50))
	require.NoError(t, err)
	_, err = render.Render(`(defn loop (n) (+ 1 (loop n))) (loop 0)`, env)
	assert.Equal(t, lisp.CondStackOverflow, lisp.ConditionOf(err))

	// the stack unwinds after an overflow
	v, err := render.Evaluate(`(+ 1 1)`, env)
	require.NoError(t, err)
	assert.Equal(t, "2", v.String())
}
