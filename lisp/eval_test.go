package lisp_test

import (
	"testing"

	"github.com/bmatsuo/rlisp/rlisptest"
)

func TestEval(t *testing.T) {
	tests := rlisptest.TestSuite{
		{"quote", rlisptest.TestSequence{
			{`3`, `3`, ``},
			{`'3`, `3`, ``},
			{`''3`, `'3`, ``},
			{`'(1 2 3)`, `(1 2 3)`, ``},
			{`'(a . b)`, `(a . b)`, ``},
			{`'[1 "two" :three]`, `[1 "two" :three]`, ``},
		}},
		{"atoms", rlisptest.TestSequence{
			{`()`, `()`, ``},
			{`nil`, `()`, ``},
			{`true`, `true`, ``},
			{`:key`, `:key`, ``},
			{`"a\nb"`, `"a\nb"`, ``},
			{`21.35`, `21.35`, ``},
			{`1e3`, `1000`, ``},
			{`-2`, `-2`, ``},
			{`unbound-thing`, `unbound-symbol: unbound symbol: unbound-thing`, ``},
		}},
		{"arithmetic", rlisptest.TestSequence{
			{`(+)`, `0`, ``},
			{`(+ 1 2 3)`, `6`, ``},
			{`(+ 1 2.5)`, `3.5`, ``},
			{`(- 10)`, `-10`, ``},
			{`(/ 6 3)`, `2`, ``},
			{`(/ 7 2)`, `3.5`, ``},
			{`(* 2 3.5)`, `7`, ``},
			{`(mod 7 3)`, `1`, ``},
			{`(inc 1)`, `2`, ``},
			{`(1- 5)`, `4`, ``},
			{`(1+ 5)`, `6`, ``},
			{`(+ 1 "a")`, `type-error: +: second argument is not a number: string`, ``},
			{`(/ 1 0)`, `type-error: /: division by zero`, ``},
		}},
		{"integer overflow", rlisptest.TestSequence{
			{`(+ 9223372036854775807 1)`, `9223372036854775808`, ``},
			{`(inc 9223372036854775807)`, `9223372036854775808`, ``},
			{`(- 0 9223372036854775807 9223372036854775807)`, `-18446744073709551616`, ``},
			{`(* 4611686018427387904 4)`, `18446744073709551616`, ``},
			{`(* 4611686018427387904 -2)`, `-9223372036854775808`, ``},
			{`(type-of (* 4611686018427387904 -2))`, `"int"`, ``},
			{`(type-of (+ 9223372036854775807 1))`, `"float"`, ``},
			{`(+ 9223372036854775806 1)`, `9223372036854775807`, ``},
		}},
		{"comparison", rlisptest.TestSequence{
			{`(even? 4)`, `true`, ``},
			{`(odd? 4)`, `false`, ``},
			{`(zero? 0.0)`, `true`, ``},
			{`(= 1 1.0)`, `true`, ``},
			{`(= "WA" "WA")`, `true`, ``},
			{`(/= 1 2)`, `true`, ``},
			{`(< 1 2 3)`, `true`, ``},
			{`(> 3 1 2)`, `false`, ``},
			{`(<= "a" "b")`, `true`, ``},
			{`(< 1 "b")`, `type-error: <: second argument is not int like the first argument: string`, ``},
		}},
		{"let", rlisptest.TestSequence{
			{`(let ())`, `()`, ``},
			{`(let ((x 1)) x)`, `1`, ``},
			{`(let ((x 1) (y (+ x 1))) y)`, `2`, ``},
			{`(let (x (y)) (list x y))`, `(() ())`, ``},
			{`(let ((x 1)) (setq x 2) x)`, `2`, ``},
			{`x`, `unbound-symbol: unbound symbol: x`, ``},
			{`(let ((1 2)) 3)`, `eval-error: let: binding name is not a symbol: int`, ``},
		}},
		{"setq", rlisptest.TestSequence{
			{`(setq x 1)`, `1`, ``},
			{`x`, `1`, ``},
			{`(setq x 2 y 3)`, `3`, ``},
			{`(list x y)`, `(2 3)`, ``},
			{`(setq x)`, `eval-error: setq: expected symbol and value pairs (got 1 arguments)`, ``},
			{`(setq true 1)`, `eval-error: cannot rebind constant: true`, ``},
		}},
		{"global assignment", rlisptest.TestSequence{
			{`(let ((x 1)) (setq f (fn () x)))`, `(fn () x)`, ``},
			{`(setq x 2)`, `2`, ``},
			{`(f)`, `1`, ``},
			{`(let ((y 1)) (defn g () y))`, `(fn () y)`, ``},
			{`(g)`, `1`, ``},
			{`(let ((z 1)) (setq z 5) (setq w z))`, `5`, ``},
			{`w`, `5`, ``},
			{`z`, `unbound-symbol: unbound symbol: z`, ``},
			{`(defn set-total (n) (setq total n))`, `(fn (n) (setq total n))`, ``},
			{`(set-total 7)`, `7`, ``},
			{`total`, `7`, ``},
		}},
		{"closures", rlisptest.TestSequence{
			{`(defn make-adder (n) (fn (x) (+ x n)))`, `(fn (n) (fn (x) (+ x n)))`, ``},
			{`(setq add2 (make-adder 2))`, `(fn (x) (+ x n))`, ``},
			{`(add2 40)`, `42`, ``},
			{`(setq n 100)`, `100`, ``},
			{`(add2 1)`, `3`, ``},
			{`(add2)`, `eval-error: add2: invalid number of arguments: 0`, ``},
			{`(defn counter () (let ((i 0)) (fn () (incf i))))`, `(fn () (let ((i 0)) (fn () (incf i))))`, ``},
			{`(setq c (counter))`, `(fn () (incf i))`, ``},
			{`(c)`, `1`, ``},
			{`(c)`, `2`, ``},
			{`((counter))`, `1`, ``},
		}},
		{"anonymous arity", rlisptest.TestSequence{
			{`((fn (x) x))`, `eval-error: anonymous function (<string>:1:2): invalid number of arguments: 0`, ``},
			{`(funcall (lambda () 1) 2)`, `eval-error: anonymous function (<string>:1:10): invalid number of arguments: 1`, ``},
		}},
		{"macros", rlisptest.TestSequence{
			{"(defmacro unless2 (c &rest body) `(if ,c () (progn ,@body)))", "(macro (c &rest body) `(if ,c () (progn ,@body)))", ``},
			{`(unless2 false 1 2)`, `2`, ``},
			{`(unless2 true (println "never"))`, `()`, ``},
			{`(macroexpand-1 '(unless2 x 1))`, `(if x () (progn 1))`, ``},
			{"(defmacro my-when (c &rest body) `(unless2 (not ,c) ,@body))", "(macro (c &rest body) `(unless2 (not ,c) ,@body))", ``},
			{`(macroexpand-1 '(my-when x 1))`, `(unless2 (not x) 1)`, ``},
			{`(macroexpand '(my-when x 1))`, `(if (not x) () (progn 1))`, ``},
			{`(macroexpand '(+ 1 2))`, `(+ 1 2)`, ``},
			{`(my-when (odd? 3) (println "odd") :done)`, `:done`, "odd\n"},
			{"(defmacro swap! (a b) `(let ((tmp ,a)) (setq ,a ,b) (setq ,b tmp)))", "(macro (a b) `(let ((tmp ,a)) (setq ,a ,b) (setq ,b tmp)))", ``},
			{`(setq p 1 q 2)`, `2`, ``},
			{`(swap! p q)`, `1`, ``},
			{`(list p q)`, `(2 1)`, ``},
			{`(let ((n 3)) (defmacro twice (x) (list 'list x x)) (twice (incf n)))`, `(4 5)`, ``},
			{`(unless2 (car 1) 1)`, `type-error: car: first argument is not a list: int`, ``},
			{`(swap! p)`, `eval-error: swap!: invalid number of arguments: 1`, ``},
			{`(funcall unless2 1)`, `type-error: funcall: first argument is not a function: function`, ``},
			{`(map swap! '(1))`, `type-error: map: first argument is not a function: function`, ``},
		}},
		{"formals", rlisptest.TestSequence{
			{`(defn opt (a &optional b) (list a b))`, `(fn (a &optional b) (list a b))`, ``},
			{`(opt 1)`, `(1 ())`, ``},
			{`(opt 1 2)`, `(1 2)`, ``},
			{`(opt 1 2 3)`, `eval-error: opt: invalid number of arguments: 3`, ``},
			{`(defn vari (a &rest xs) xs)`, `(fn (a &rest xs) xs)`, ``},
			{`(vari 1 2 3)`, `(2 3)`, ``},
			{`(vari 1)`, `()`, ``},
			{`((lambda (x) (* x x)) 5)`, `25`, ``},
		}},
		{"conditionals", rlisptest.TestSequence{
			{`(if () 1 2)`, `2`, ``},
			{`(if false 1)`, `()`, ``},
			{`(if 0 1 2)`, `1`, ``},
			{`(if "" 1 2)`, `1`, ``},
			{`(when true 1 2)`, `2`, ``},
			{`(unless true 1)`, `()`, ``},
			{`(cond ((= 1 2) 'a) ((= 1 1) 'b) (true 'c))`, `b`, ``},
			{`(cond (false 1))`, `()`, ``},
			{`(cond (3))`, `3`, ``},
			{`(and 1 2)`, `2`, ``},
			{`(and)`, `true`, ``},
			{`(and 1 () (print "unreached"))`, `()`, ``},
			{`(or () false)`, `false`, ``},
			{`(or)`, `()`, ``},
			{`(or () 2 (print "unreached"))`, `2`, ``},
			{`(not ())`, `true`, ``},
			{`(progn (print 1) (print 2) 3)`, `3`, `12`},
			{`(do 1 2)`, `2`, ``},
		}},
		{"iteration", rlisptest.TestSequence{
			{`(dolist (x '(1 2 3)) (print x))`, `()`, `123`},
			{`(let ((sum 0)) (dolist (x '(1 2 3) sum) (incf sum x)))`, `6`, ``},
			{`(dolist (x [1 2]) x)`, `type-error: dolist: first argument is not a proper list: vector`, ``},
			{`(doseq (c "abc") (print c "-"))`, `()`, `a-b-c-`},
			{`(doseq (e {:a 1 :b 2}) (print e))`, `()`, `(:a 1)(:b 2)`},
			{`(doseq (x [1 2]) (print x))`, `()`, `12`},
			{`(doseq (x 3) x)`, `type-error: doseq: first argument is not a sequence: int`, ``},
			{`(dotimes (i 3) (print i))`, `()`, `012`},
			{`(dotimes (i 3 i))`, `3`, ``},
		}},
		{"incf", rlisptest.TestSequence{
			{`(setq i 1)`, `1`, ``},
			{`(incf i)`, `2`, ``},
			{`(incf i 10)`, `12`, ``},
			{`(decf i 2.5)`, `9.5`, ``},
			{`(incf undefined-var)`, `unbound-symbol: unbound symbol: undefined-var`, ``},
		}},
		{"quasiquote", rlisptest.TestSequence{
			{"`(a ,(+ 1 2) c)", `(a 3 c)`, ``},
			{`(setq xs '(1 2))`, `(1 2)`, ``},
			{"`(0 ,@xs 3)", `(0 1 2 3)`, ``},
			{"`(a . ,xs)", `(a 1 2)`, ``},
			{"`[1 ,(+ 1 1) ,@xs]", `[1 2 1 2]`, ``},
			{"`{:a ,(+ 1 1)}", `{:a 2}`, ``},
			{"`(a `(b ,(c ,(+ 1 2))))", "(a `(b ,(c 3)))", ``},
			{"`((lower ,(lower-case \"aPPLE\")))", `((lower "apple"))`, ``},
			{`,xs`, `eval-error: unquote: called outside of quasiquote`, ``},
			{"`(1 ,@3)", `type-error: quasiquote: unquote-splicing value is not a list: int`, ``},
		}},
		{"maps", rlisptest.TestSequence{
			{`(setq m {:ProductName "Chai" "Price" 18})`, `{:ProductName "Chai" "Price" 18}`, ``},
			{`(:ProductName m)`, `"Chai"`, ``},
			{`(:Price m)`, `18`, ``},
			{`(get m 'Price)`, `18`, ``},
			{`(get m :Missing 0)`, `0`, ``},
			{`(:Missing m)`, `()`, ``},
			{`(:Missing m 1)`, `1`, ``},
			{`(:a ())`, `()`, ``},
			{`(assoc m :Stock 39)`, `{:ProductName "Chai" "Price" 18 :Stock 39}`, ``},
			{`m`, `{:ProductName "Chai" "Price" 18}`, ``},
			{`(keys m)`, `(:ProductName "Price")`, ``},
			{`(values m)`, `("Chai" 18)`, ``},
			{`(.ProductName m)`, `"Chai"`, ``},
			{`(.Missing m)`, `host-access-error: .Missing: map has no key "Missing"`, ``},
			{`(new-map '(a 1) '("b" 2))`, `{a 1 "b" 2}`, ``},
			{`(new-map (list (list :a 1)))`, `{:a 1}`, ``},
			{`(:a 1)`, `type-error: :a: argument is not a map: int`, ``},
		}},
		{"assoc-value", rlisptest.TestSequence{
			{`(assoc-value 'b '((a 1) (b 2) (b 3)))`, `2`, ``},
			{`(assoc-value "a" '((a . 1)))`, `1`, ``},
			{`(assoc-value :c '((a 1)))`, `()`, ``},
			{`(assoc-value 'a 1)`, `type-error: assoc-value: second argument is not a list: int`, ``},
		}},
		{"sequences", rlisptest.TestSequence{
			{`(filter (fn (%) (< % 5)) '(5 4 1 3 9 8 6 7 2 0))`, `(4 1 3 2 0)`, ``},
			{`(filter (fn (x) false) '(1 2))`, `()`, ``},
			{`(filter (fn (x) true) [1 2])`, `(1 2)`, ``},
			{`(filter 1 '(1))`, `type-error: filter: first argument is not a function: int`, ``},
			{`(let ((calls ())) (filter (fn (x) (setq calls (cons x calls)) (odd? x)) '(1 2 3)) (reverse calls))`, `(1 2 3)`, ``},
			{`(map inc (map inc '(1 2)))`, `(3 4)`, ``},
			{`(map + '(1 2 3) [10 20])`, `(11 22)`, ``},
			{`(nth '(a b c) 1)`, `b`, ``},
			{`(nth "abc" 2)`, `"c"`, ``},
			{`(nth '(a) 3)`, `index-error: nth: index out of range: 3 (length 1)`, ``},
			{`(nth [1] -1)`, `index-error: nth: index out of range: -1`, ``},
			{`(/count "five")`, `4`, ``},
			{`(count {:a 1})`, `1`, ``},
			{`(length ())`, `0`, ``},
			{`(/count 1)`, `type-error: /count: first argument is not a sequence: int`, ``},
			{`(append '(1) [2] '(3))`, `(1 2 3)`, ``},
			{`(reverse '(1 2 3))`, `(3 2 1)`, ``},
			{`(reverse "abc")`, `"cba"`, ``},
			{`(range 3)`, `(0 1 2)`, ``},
			{`(range 1 10 3)`, `(1 4 7)`, ``},
			{`(foldl + 0 '(1 2 3))`, `6`, ``},
			{`(sort < '(3 1 2))`, `(1 2 3)`, ``},
			{`(apply + 1 '(2 3))`, `6`, ``},
			{`(funcall + 1 2)`, `3`, ``},
			{`(cons 1 2)`, `(1 . 2)`, ``},
			{`(car '(1 2))`, `1`, ``},
			{`(cdr '(1 2))`, `(2)`, ``},
			{`(first [])`, `()`, ``},
			{`(any? even? '(1 2))`, `true`, ``},
			{`(all? even? '(1 2))`, `false`, ``},
			{`(slice [1 2 3] 1 3)`, `[2 3]`, ``},
			{`(vector 1 2)`, `[1 2]`, ``},
		}},
		{"strings", rlisptest.TestSequence{
			{`(lower-case "aPPLE")`, `"apple"`, ``},
			{`(upper-case "BlUeBeRrY")`, `"BLUEBERRY"`, ``},
			{`(str "a" 1 'b 2.5)`, `"a1b2.5"`, ``},
			{`(to-string 21.35)`, `"21.35"`, ``},
			{`(format-string "{} is {}" "Chai" 18)`, `"Chai is 18"`, ``},
			{`(lower-case 1)`, `type-error: lower-case: first argument is not a string: int`, ``},
		}},
		{"predicates", rlisptest.TestSequence{
			{`(list? ())`, `true`, ``},
			{`(list? [1])`, `false`, ``},
			{`(vector? [1])`, `true`, ``},
			{`(string? "a")`, `true`, ``},
			{`(number? 1.5)`, `true`, ``},
			{`(map? {})`, `true`, ``},
			{`(symbol? 'a)`, `true`, ``},
			{`(keyword? :a)`, `true`, ``},
			{`(function? car)`, `true`, ``},
			{`(nil? ())`, `true`, ``},
			{`(empty? "")`, `true`, ``},
			{`(type-of 1)`, `"int"`, ``},
			{`(equal? '(1 [2]) '(1 [2]))`, `true`, ``},
		}},
		{"errors", rlisptest.TestSequence{
			{`(error "boom")`, `error: boom`, ``},
			{`(error 'my-cond "boom" 1)`, `my-cond: boom 1`, ``},
			{`(car 1)`, `type-error: car: first argument is not a list: int`, ``},
			{`(1 2)`, `eval-error: not callable: 1`, ``},
			{`(eval '(+ 1 2))`, `3`, ``},
			{`(load-string "(+ 1 2) (+ 3 4)")`, `7`, ``},
		}},
		{"output", rlisptest.TestSequence{
			{`(println "a" 1 " " 2.5)`, `()`, "a1 2.5\n"},
			{`(print '(1 "x"))`, `()`, `(1 "x")`},
			{`(println)`, `()`, "\n"},
		}},
	}
	rlisptest.RunTestSuite(t, tests)
}
